package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/induparts/catalog/internal/domain"
)

// QueryUC compiles a selected-filters payload into storage-neutral
// predicates and runs filtered listings. Unknown keys and malformed entries
// compile to no constraint; they never error.
type QueryUC struct {
	Attrs    domain.AttributeRepo
	Products domain.ProductRepo
}

// Compile turns the external payload into a ProductQuery. The category, when
// given, supplies the display units range bounds are entered in; bounds are
// converted to SI here so the storage layer compares SI columns only.
func (uc *QueryUC) Compile(ctx context.Context, categoryID *uuid.UUID, selected []domain.SelectedFilter) (domain.ProductQuery, error) {
	q := domain.ProductQuery{CategoryID: categoryID}

	var bound map[string]*domain.BoundAttribute
	if categoryID != nil {
		bas, err := uc.Attrs.Bindings(ctx, *categoryID)
		if err != nil {
			return q, err
		}
		bound = make(map[string]*domain.BoundAttribute, len(bas))
		for i := range bas {
			bound[bas[i].Attribute.Slug] = &bas[i]
		}
	}

	for _, sf := range selected {
		switch sf.Key {
		case domain.FilterKeyBrand:
			if vals := cleanStrings(sf.Values); len(vals) > 0 {
				q.Conditions = append(q.Conditions, domain.Condition{Op: domain.CondBrandIn, Brands: vals})
			}
		case domain.FilterKeyPrice:
			if sf.Min != nil {
				q.Conditions = append(q.Conditions, domain.Condition{Op: domain.CondPriceMin, Price: *sf.Min})
			}
			if sf.Max != nil {
				q.Conditions = append(q.Conditions, domain.Condition{Op: domain.CondPriceMax, Price: *sf.Max})
			}
		case domain.FilterKeyDiscount:
			// only an affirmative selection constrains; false means
			// "don't care", not "no discount"
			if b := boolInput(sf); b != nil && *b {
				q.Conditions = append(q.Conditions, domain.Condition{Op: domain.CondDiscountOnly})
			}
		default:
			cond, ok, err := uc.attributeCondition(ctx, bound, sf)
			if err != nil {
				return q, err
			}
			if ok {
				q.Conditions = append(q.Conditions, cond)
			}
		}
	}
	return q, nil
}

// List compiles and runs a filtered, sorted, paginated listing.
func (uc *QueryUC) List(ctx context.Context, categoryID *uuid.UUID, selected []domain.SelectedFilter, sortKey string, page, pageSize int) ([]domain.Product, int64, error) {
	q, err := uc.Compile(ctx, categoryID, selected)
	if err != nil {
		return nil, 0, err
	}
	q.Sort = sortKey
	q.Page = page
	q.PageSize = pageSize
	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	return uc.Products.List(ctx, q)
}

func (uc *QueryUC) attributeCondition(ctx context.Context, bound map[string]*domain.BoundAttribute, sf domain.SelectedFilter) (domain.Condition, bool, error) {
	var attr *domain.Attribute
	var binding *domain.CategoryAttributeBinding
	if bound != nil {
		ba, ok := bound[sf.Key]
		if !ok {
			// stale client state, not an error
			return domain.Condition{}, false, nil
		}
		attr, binding = &ba.Attribute, &ba.Binding
	} else {
		a, err := uc.Attrs.BySlug(ctx, sf.Key)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Condition{}, false, nil
		}
		if err != nil {
			return domain.Condition{}, false, err
		}
		attr = a
	}

	if attr.UsesOptions {
		ids := make([]uuid.UUID, 0, len(sf.Values))
		for _, v := range sf.Values {
			id, err := uuid.Parse(strings.TrimSpace(v))
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return domain.Condition{}, false, nil
		}
		return domain.Condition{Op: domain.CondOptionIn, AttributeID: attr.ID, OptionIDs: ids}, true, nil
	}

	switch attr.DataType {
	case domain.TypeBoolean:
		b := boolInput(sf)
		if b == nil {
			return domain.Condition{}, false, nil
		}
		op := domain.CondBoolTrue
		if !*b {
			// an explicit "no" matches products without a true row,
			// whether they stored false or nothing at all
			op = domain.CondBoolNotTrue
		}
		return domain.Condition{Op: op, AttributeID: attr.ID}, true, nil

	case domain.TypeNumber, domain.TypeRange:
		if sf.Min == nil && sf.Max == nil {
			return domain.Condition{}, false, nil
		}
		display := domain.ResolveDisplayUnit(attr, binding)
		cond := domain.Condition{Op: domain.CondRangeSI, AttributeID: attr.ID, UnitFactor: 1, UnitOffset: 0}
		if attr.DefaultUnit != nil {
			cond.UnitFactor = attr.DefaultUnit.SIFactor
			cond.UnitOffset = attr.DefaultUnit.SIOffset
		}
		if sf.Min != nil {
			si := display.ToSI(*sf.Min)
			cond.MinSI = &si
		}
		if sf.Max != nil {
			si := display.ToSI(*sf.Max)
			cond.MaxSI = &si
		}
		return cond, true, nil

	case domain.TypeText:
		if vals := cleanStrings(sf.Values); len(vals) > 0 {
			return domain.Condition{Op: domain.CondTextIn, AttributeID: attr.ID, Texts: vals}, true, nil
		}
		return domain.Condition{}, false, nil
	}
	return domain.Condition{}, false, nil
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// boolInput reads the boolean of a payload entry, accepting the bool field
// or a lone "1"/"0"/"true"/"false" value string.
func boolInput(sf domain.SelectedFilter) *bool {
	if sf.Bool != nil {
		return sf.Bool
	}
	if len(sf.Values) != 1 {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(sf.Values[0])) {
	case "1", "true", "yes":
		v := true
		return &v
	case "0", "false", "no":
		v := false
		return &v
	}
	return nil
}
