package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/induparts/catalog/internal/domain"
)

// RegistryUC carries the admin-facing mutations of the attribute registry:
// definitions, option lists, units and category bindings. Every mutation
// that can change a built schema invalidates the affected categories.
type RegistryUC struct {
	Attrs domain.AttributeRepo
	Units domain.UnitRepo
	Cache SchemaStore
}

func (uc *RegistryUC) SaveAttribute(ctx context.Context, a *domain.Attribute) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Slug == "" {
		a.Slug = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(a.Name), " ", "-"))
	}
	existing, err := uc.Attrs.BySlug(ctx, a.Slug)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if existing != nil && existing.ID != a.ID {
		return domain.ErrSlugTaken
	}
	if err := uc.Attrs.Save(ctx, a); err != nil {
		return err
	}
	return uc.invalidateAttribute(ctx, a.ID)
}

func (uc *RegistryUC) SaveOption(ctx context.Context, o *domain.AttributeOption) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if err := uc.Attrs.SaveOption(ctx, o); err != nil {
		return err
	}
	return uc.invalidateAttribute(ctx, o.AttributeID)
}

func (uc *RegistryUC) DeleteOption(ctx context.Context, attributeID, optionID uuid.UUID) error {
	if err := uc.Attrs.DeleteOption(ctx, optionID); err != nil {
		return err
	}
	return uc.invalidateAttribute(ctx, attributeID)
}

// SaveUnit stores a unit definition. Conversions read units through the
// attributes that reference them, so every cached schema may be stale after
// a factor edit.
func (uc *RegistryUC) SaveUnit(ctx context.Context, u *domain.Unit) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if err := uc.Units.Save(ctx, u); err != nil {
		return err
	}
	if uc.Cache != nil {
		uc.Cache.InvalidateAll()
	}
	return nil
}

func (uc *RegistryUC) UpsertBinding(ctx context.Context, b *domain.CategoryAttributeBinding) error {
	if err := uc.Attrs.UpsertBinding(ctx, b); err != nil {
		return err
	}
	if uc.Cache != nil {
		uc.Cache.Invalidate(b.CategoryID)
	}
	return nil
}

func (uc *RegistryUC) invalidateAttribute(ctx context.Context, attributeID uuid.UUID) error {
	if uc.Cache == nil {
		return nil
	}
	cats, err := uc.Attrs.BoundCategories(ctx, attributeID)
	if err != nil {
		return err
	}
	for _, id := range cats {
		uc.Cache.Invalidate(id)
	}
	return nil
}
