package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/induparts/catalog/internal/domain"
)

type AttributeRepo struct{ db *gorm.DB }

func NewAttributeRepo(db *gorm.DB) *AttributeRepo { return &AttributeRepo{db: db} }

func (r *AttributeRepo) ByID(ctx context.Context, id uuid.UUID) (*domain.Attribute, error) {
	var a domain.Attribute
	if err := r.db.WithContext(ctx).Preload("DefaultUnit").First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttributeRepo) ByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Attribute, error) {
	if len(ids) == 0 {
		return []domain.Attribute{}, nil
	}
	var list []domain.Attribute
	if err := r.db.WithContext(ctx).Preload("DefaultUnit").Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *AttributeRepo) BySlug(ctx context.Context, slug string) (*domain.Attribute, error) {
	var a domain.Attribute
	if err := r.db.WithContext(ctx).Preload("DefaultUnit").First(&a, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttributeRepo) Save(ctx context.Context, a *domain.Attribute) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AttributeRepo) Options(ctx context.Context, attributeID uuid.UUID) ([]domain.AttributeOption, error) {
	var list []domain.AttributeOption
	if err := r.db.WithContext(ctx).
		Where("attribute_id = ?", attributeID).
		Order("sort_order asc, value asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *AttributeRepo) SaveOption(ctx context.Context, o *domain.AttributeOption) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *AttributeRepo) DeleteOption(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attribute_option_id = ?", id).Delete(&domain.OptionAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.AttributeOption{}, "id = ?", id).Error
	})
}

func (r *AttributeRepo) Bindings(ctx context.Context, categoryID uuid.UUID) ([]domain.BoundAttribute, error) {
	var bindings []domain.CategoryAttributeBinding
	if err := r.db.WithContext(ctx).
		Preload("DisplayUnit").
		Where("category_id = ?", categoryID).
		Order("filter_order asc").
		Find(&bindings).Error; err != nil {
		return nil, err
	}
	if len(bindings) == 0 {
		return []domain.BoundAttribute{}, nil
	}
	ids := make([]uuid.UUID, len(bindings))
	for i, b := range bindings {
		ids[i] = b.AttributeID
	}
	attrs, err := r.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Attribute, len(attrs))
	for _, a := range attrs {
		byID[a.ID] = a
	}
	out := make([]domain.BoundAttribute, 0, len(bindings))
	for _, b := range bindings {
		a, ok := byID[b.AttributeID]
		if !ok {
			// binding to a deleted attribute, tolerate and skip
			continue
		}
		out = append(out, domain.BoundAttribute{Attribute: a, Binding: b})
	}
	return out, nil
}

func (r *AttributeRepo) Binding(ctx context.Context, categoryID, attributeID uuid.UUID) (*domain.CategoryAttributeBinding, error) {
	var b domain.CategoryAttributeBinding
	if err := r.db.WithContext(ctx).Preload("DisplayUnit").
		First(&b, "category_id = ? AND attribute_id = ?", categoryID, attributeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *AttributeRepo) UpsertBinding(ctx context.Context, b *domain.CategoryAttributeBinding) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category_id"}, {Name: "attribute_id"}},
		UpdateAll: true,
	}).Create(b).Error
}

func (r *AttributeRepo) BoundCategories(ctx context.Context, attributeID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := r.db.WithContext(ctx).Model(&domain.CategoryAttributeBinding{}).
		Where("attribute_id = ?", attributeID).
		Pluck("category_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
