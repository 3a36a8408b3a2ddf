package usecase

import (
	"context"
	"sort"

	"github.com/induparts/catalog/internal/domain"
)

// SpecsUC renders the spec sheet of a single product: the bindings of its
// primary category marked visible_in_specs, ordered by compare_order, each
// labeled with the category's display unit and format.
type SpecsUC struct {
	Products domain.ProductRepo
	Values   domain.ValueRepo
	Attrs    domain.AttributeRepo
}

func (uc *SpecsUC) Sheet(ctx context.Context, slug string) ([]domain.SpecRow, error) {
	p, err := uc.Products.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	catID, err := uc.Products.PrimaryCategory(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if catID == nil {
		return []domain.SpecRow{}, nil
	}
	bound, err := uc.Attrs.Bindings(ctx, *catID)
	if err != nil {
		return nil, err
	}

	visible := make([]*domain.BoundAttribute, 0, len(bound))
	for i := range bound {
		if bound[i].Binding.VisibleInSpecs {
			visible = append(visible, &bound[i])
		}
	}
	sortByCompareOrder(visible)

	rows := make([]domain.SpecRow, 0, len(visible))
	for _, ba := range visible {
		a := &ba.Attribute
		var v domain.AttrValue
		if a.UsesOptions {
			opts, err := uc.Values.ProductOptions(ctx, p.ID, a.ID)
			if err != nil {
				return nil, err
			}
			v = domain.AttrValue{Kind: domain.ValueNone}
			if len(opts) > 0 {
				v = domain.AttrValue{Kind: domain.ValueOptions}
				for _, o := range opts {
					v.OptionIDs = append(v.OptionIDs, o.ID)
					v.Options = append(v.Options, o.Value)
				}
			}
		} else {
			row, err := uc.Values.FreeForm(ctx, p.ID, a.ID)
			if err != nil {
				return nil, err
			}
			v = domain.FreeFormAttrValue(a, row)
		}
		label := labelFor(v, domain.ResolveDisplayUnit(a, &ba.Binding), domain.ResolveNumberFormat(a, &ba.Binding))
		if label == "" {
			continue
		}
		rows = append(rows, domain.SpecRow{Key: a.Slug, Name: a.Name, Group: a.Group, Label: label})
	}
	return rows, nil
}

func sortByCompareOrder(bas []*domain.BoundAttribute) {
	sort.SliceStable(bas, func(i, j int) bool {
		return bas[i].Binding.CompareOrder < bas[j].Binding.CompareOrder
	})
}
