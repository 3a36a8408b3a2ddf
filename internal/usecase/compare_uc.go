package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/induparts/catalog/internal/domain"
)

// CompareUC builds the side-by-side attribute×product matrix for an explicit
// product set. Values are loaded in two bulk passes; per-row equality is
// decided on normalized values only, never on the formatted labels.
type CompareUC struct {
	Products domain.ProductRepo
	Values   domain.ValueRepo
	Attrs    domain.AttributeRepo
}

func (uc *CompareUC) Build(ctx context.Context, ids []uuid.UUID, opts domain.CompareOptions) (*domain.CompareMatrix, error) {
	products, err := uc.Products.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	// keep the caller's column order
	byID := make(map[uuid.UUID]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	ordered := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	if len(ordered) == 0 {
		return &domain.CompareMatrix{Attributes: []domain.CompareRow{}, Products: []domain.CompareColumn{}}, nil
	}
	prodIDs := make([]uuid.UUID, len(ordered))
	for i, p := range ordered {
		prodIDs[i] = p.ID
	}

	ffvs, err := uc.Values.FreeFormByProducts(ctx, prodIDs)
	if err != nil {
		return nil, err
	}
	assigned, err := uc.Values.AssignmentsByProducts(ctx, prodIDs)
	if err != nil {
		return nil, err
	}

	freeByAttr := make(map[uuid.UUID]map[uuid.UUID]*domain.FreeFormValue)
	for i := range ffvs {
		v := &ffvs[i]
		m := freeByAttr[v.AttributeID]
		if m == nil {
			m = make(map[uuid.UUID]*domain.FreeFormValue)
			freeByAttr[v.AttributeID] = m
		}
		m[v.ProductID] = v
	}
	optsByAttr := make(map[uuid.UUID]map[uuid.UUID][]domain.AssignedOption)
	for _, ao := range assigned {
		m := optsByAttr[ao.AttributeID]
		if m == nil {
			m = make(map[uuid.UUID][]domain.AssignedOption)
			optsByAttr[ao.AttributeID] = m
		}
		m[ao.ProductID] = append(m[ao.ProductID], ao)
	}

	attrIDs := make([]uuid.UUID, 0, len(freeByAttr)+len(optsByAttr))
	for id := range freeByAttr {
		attrIDs = append(attrIDs, id)
	}
	for id := range optsByAttr {
		if _, dup := freeByAttr[id]; !dup {
			attrIDs = append(attrIDs, id)
		}
	}
	attrs, err := uc.Attrs.ByIDs(ctx, attrIDs)
	if err != nil {
		return nil, err
	}

	type rowData struct {
		row   domain.CompareRow
		cells []domain.CompareCell
	}
	rows := make([]rowData, 0, len(attrs))

	for i := range attrs {
		a := &attrs[i]
		format := domain.ResolveNumberFormat(a, nil)
		unit := a.DefaultUnit

		cells := make([]domain.CompareCell, len(ordered))
		filled := 0
		for j, p := range ordered {
			var v domain.AttrValue
			if a.UsesOptions {
				v = optionsAttrValue(optsByAttr[a.ID][p.ID])
			} else {
				v = domain.FreeFormAttrValue(a, freeByAttr[a.ID][p.ID])
			}
			cells[j] = domain.CompareCell{
				Label:      labelFor(v, unit, format),
				Normalized: normalizedFor(v),
			}
			if cells[j].Label != "" {
				filled++
			}
		}

		suffix := ""
		if unit != nil {
			suffix = unit.Symbol
		}
		rows = append(rows, rowData{
			row: domain.CompareRow{
				AttributeID: a.ID,
				Key:         a.Slug,
				Name:        a.Name,
				Group:       a.Group,
				Suffix:      suffix,
				AllEqual:    allEqual(cells),
				FilledCount: filled,
			},
			cells: cells,
		})
	}

	kept := rows[:0]
	for _, r := range rows {
		if opts.HideEqual && r.row.AllEqual {
			continue
		}
		if opts.HideEmpty && r.row.FilledCount == 0 {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		ri, rj := kept[i].row, kept[j].row
		if ri.AllEqual != rj.AllEqual {
			return !ri.AllEqual
		}
		if ri.FilledCount != rj.FilledCount {
			return ri.FilledCount > rj.FilledCount
		}
		if ri.Group != rj.Group {
			return ri.Group < rj.Group
		}
		return ri.Name < rj.Name
	})

	m := &domain.CompareMatrix{
		Attributes: make([]domain.CompareRow, len(kept)),
		Products:   make([]domain.CompareColumn, len(ordered)),
	}
	for j, p := range ordered {
		m.Products[j] = domain.CompareColumn{
			ProductID: p.ID,
			Slug:      p.Slug,
			Name:      p.Name,
			Brand:     p.Brand,
			Values:    make([]domain.CompareCell, len(kept)),
		}
	}
	for i, r := range kept {
		m.Attributes[i] = r.row
		for j := range m.Products {
			m.Products[j].Values[i] = r.cells[j]
		}
	}
	return m, nil
}

func optionsAttrValue(assigned []domain.AssignedOption) domain.AttrValue {
	if len(assigned) == 0 {
		return domain.AttrValue{Kind: domain.ValueNone}
	}
	sorted := make([]domain.AssignedOption, len(assigned))
	copy(sorted, assigned)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].Value < sorted[j].Value
	})
	v := domain.AttrValue{Kind: domain.ValueOptions}
	for _, ao := range sorted {
		v.OptionIDs = append(v.OptionIDs, ao.OptionID)
		v.Options = append(v.Options, ao.Value)
	}
	return v
}

// labelFor renders the human cell text: numbers quantized into the unit with
// its symbol appended, ranges as "min—max" / "≥ min" / "≤ max", options as a
// plain list.
func labelFor(v domain.AttrValue, unit *domain.Unit, format domain.NumberFormat) string {
	suffix := ""
	if unit != nil && unit.Symbol != "" {
		suffix = " " + unit.Symbol
	}
	num := func(si float64) string {
		q := domain.Quantize(unit.FromSI(si), format.Decimals, format.Rounding)
		return strconv.FormatFloat(q, 'f', format.Decimals, 64)
	}
	switch v.Kind {
	case domain.ValueText:
		return v.Text
	case domain.ValueBool:
		if v.Bool {
			return "Yes"
		}
		return "No"
	case domain.ValueNumber:
		return num(v.NumberSI) + suffix
	case domain.ValueRange:
		switch {
		case v.MinSI != nil && v.MaxSI != nil:
			return num(*v.MinSI) + "—" + num(*v.MaxSI) + suffix
		case v.MinSI != nil:
			return "≥ " + num(*v.MinSI) + suffix
		case v.MaxSI != nil:
			return "≤ " + num(*v.MaxSI) + suffix
		}
		return ""
	case domain.ValueOptions:
		return strings.Join(v.Options, ", ")
	}
	return ""
}

// normalizedFor produces the unit-independent value used for equality: SI
// numbers and bounds, sorted option ids, raw booleans and text. Absent
// values normalize to nil so two gaps compare equal.
func normalizedFor(v domain.AttrValue) any {
	switch v.Kind {
	case domain.ValueText:
		return v.Text
	case domain.ValueBool:
		return v.Bool
	case domain.ValueNumber:
		return v.NumberSI
	case domain.ValueRange:
		return []*float64{v.MinSI, v.MaxSI}
	case domain.ValueOptions:
		ids := make([]string, len(v.OptionIDs))
		for i, id := range v.OptionIDs {
			ids[i] = id.String()
		}
		sort.Strings(ids)
		return ids
	}
	return nil
}

func allEqual(cells []domain.CompareCell) bool {
	if len(cells) == 0 {
		return true
	}
	first, err := json.Marshal(cells[0].Normalized)
	if err != nil {
		return false
	}
	for _, c := range cells[1:] {
		b, err := json.Marshal(c.Normalized)
		if err != nil {
			return false
		}
		if string(b) != string(first) {
			return false
		}
	}
	return true
}
