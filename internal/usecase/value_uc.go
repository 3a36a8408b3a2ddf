package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/induparts/catalog/internal/domain"
)

// FreeFormInput is a raw value as entered, numbers in the attribute's own
// unit. Which field is read depends on the attribute's data type.
type FreeFormInput struct {
	Text   *string
	Bool   *bool
	Number *float64
	Min    *float64
	Max    *float64
}

// ValueUC is the write path of the value store. It keeps the SI duals
// consistent with the entered numbers, nulls subfields foreign to the
// attribute's data type, enforces at-most-one assignment for single-select
// attributes and invalidates the cached schemas of every affected category.
type ValueUC struct {
	Attrs    domain.AttributeRepo
	Values   domain.ValueRepo
	Products domain.ProductRepo
	Cache    SchemaStore
}

func (uc *ValueUC) SetFreeForm(ctx context.Context, productID, attributeID uuid.UUID, in FreeFormInput) error {
	attr, err := uc.Attrs.ByID(ctx, attributeID)
	if err != nil {
		return err
	}
	if attr.UsesOptions {
		return domain.ErrWrongValueKind
	}

	row := &domain.FreeFormValue{ProductID: productID, AttributeID: attributeID}
	// the SI dual always derives from the attribute's own unit; the
	// category display unit is presentation only
	unit := attr.DefaultUnit
	empty := true
	switch attr.DataType {
	case domain.TypeText:
		if in.Text != nil && *in.Text != "" {
			row.ValueText = in.Text
			empty = false
		}
	case domain.TypeBoolean:
		if in.Bool != nil {
			row.ValueBool = in.Bool
			empty = false
		}
	case domain.TypeNumber:
		if in.Number != nil {
			si := unit.ToSI(*in.Number)
			row.ValueNumber = in.Number
			row.ValueSI = &si
			empty = false
		}
	case domain.TypeRange:
		if in.Min != nil {
			si := unit.ToSI(*in.Min)
			row.ValueMin = in.Min
			row.ValueMinSI = &si
			empty = false
		}
		if in.Max != nil {
			si := unit.ToSI(*in.Max)
			row.ValueMax = in.Max
			row.ValueMaxSI = &si
			empty = false
		}
	}

	if empty {
		if err := uc.Values.DeleteFreeForm(ctx, productID, attributeID); err != nil {
			return err
		}
	} else if err := uc.Values.UpsertFreeForm(ctx, row); err != nil {
		return err
	}
	return uc.invalidateProduct(ctx, productID)
}

func (uc *ValueUC) AssignOptions(ctx context.Context, productID, attributeID uuid.UUID, optionIDs []uuid.UUID) error {
	attr, err := uc.Attrs.ByID(ctx, attributeID)
	if err != nil {
		return err
	}
	if !attr.UsesOptions {
		return domain.ErrWrongValueKind
	}

	known, err := uc.Attrs.Options(ctx, attributeID)
	if err != nil {
		return err
	}
	valid := make(map[uuid.UUID]struct{}, len(known))
	for _, o := range known {
		valid[o.ID] = struct{}{}
	}
	keep := make([]uuid.UUID, 0, len(optionIDs))
	seen := make(map[uuid.UUID]struct{}, len(optionIDs))
	for _, id := range optionIDs {
		if _, ok := valid[id]; !ok {
			return domain.ErrOptionMismatch
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		keep = append(keep, id)
	}
	if attr.SingleSelect() && len(keep) > 1 {
		keep = keep[:1]
	}

	if err := uc.Values.ReplaceOptions(ctx, productID, attributeID, keep); err != nil {
		return err
	}
	return uc.invalidateProduct(ctx, productID)
}

func (uc *ValueUC) invalidateProduct(ctx context.Context, productID uuid.UUID) error {
	if uc.Cache == nil {
		return nil
	}
	cats, err := uc.Products.CategoriesOf(ctx, productID)
	if err != nil {
		return err
	}
	for _, id := range cats {
		uc.Cache.Invalidate(id)
	}
	return nil
}
