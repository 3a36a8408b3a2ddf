package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/induparts/catalog/internal/domain"
)

type ValueRepo struct{ db *gorm.DB }

func NewValueRepo(db *gorm.DB) *ValueRepo { return &ValueRepo{db: db} }

func (r *ValueRepo) FreeForm(ctx context.Context, productID, attributeID uuid.UUID) (*domain.FreeFormValue, error) {
	var v domain.FreeFormValue
	err := r.db.WithContext(ctx).
		First(&v, "product_id = ? AND attribute_id = ?", productID, attributeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ValueRepo) FreeFormByProducts(ctx context.Context, productIDs []uuid.UUID) ([]domain.FreeFormValue, error) {
	if len(productIDs) == 0 {
		return []domain.FreeFormValue{}, nil
	}
	var list []domain.FreeFormValue
	if err := r.db.WithContext(ctx).Where("product_id IN ?", productIDs).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ValueRepo) ProductOptions(ctx context.Context, productID, attributeID uuid.UUID) ([]domain.AttributeOption, error) {
	var list []domain.AttributeOption
	if err := r.db.WithContext(ctx).Model(&domain.AttributeOption{}).
		Joins("JOIN option_assignments oa ON oa.attribute_option_id = attribute_options.id").
		Where("oa.product_id = ? AND oa.attribute_id = ?", productID, attributeID).
		Order("attribute_options.sort_order asc, attribute_options.value asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ValueRepo) AssignmentsByProducts(ctx context.Context, productIDs []uuid.UUID) ([]domain.AssignedOption, error) {
	if len(productIDs) == 0 {
		return []domain.AssignedOption{}, nil
	}
	var list []domain.AssignedOption
	if err := r.db.WithContext(ctx).Model(&domain.OptionAssignment{}).
		Select("option_assignments.product_id, option_assignments.attribute_id, o.id AS option_id, o.value, o.sort_order").
		Joins("JOIN attribute_options o ON o.id = option_assignments.attribute_option_id").
		Where("option_assignments.product_id IN ?", productIDs).
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ValueRepo) UpsertFreeForm(ctx context.Context, row *domain.FreeFormValue) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "attribute_id"}},
		UpdateAll: true,
	}).Create(row).Error
}

func (r *ValueRepo) ReplaceOptions(ctx context.Context, productID, attributeID uuid.UUID, optionIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ? AND attribute_id = ?", productID, attributeID).
			Delete(&domain.OptionAssignment{}).Error; err != nil {
			return err
		}
		if len(optionIDs) == 0 {
			return nil
		}
		rows := make([]domain.OptionAssignment, 0, len(optionIDs))
		for _, id := range optionIDs {
			rows = append(rows, domain.OptionAssignment{
				ProductID:         productID,
				AttributeID:       attributeID,
				AttributeOptionID: id,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (r *ValueRepo) DeleteFreeForm(ctx context.Context, productID, attributeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ? AND attribute_id = ?", productID, attributeID).
		Delete(&domain.FreeFormValue{}).Error
}
