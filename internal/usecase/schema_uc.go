package usecase

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/induparts/catalog/internal/domain"
)

// SchemaStore is what the builder needs from the schema cache.
type SchemaStore interface {
	GetOrCompute(categoryID uuid.UUID, compute func() (*domain.FilterSchema, error)) (*domain.FilterSchema, error)
	Invalidate(categoryID uuid.UUID)
	InvalidateAll()
}

// SchemaUC builds the ordered filter schema of a category: the three system
// filters first, then one filter per bound attribute whose data actually
// discriminates. Results are cached per category.
type SchemaUC struct {
	Attrs  domain.AttributeRepo
	Facets domain.FacetReader
	Cache  SchemaStore
}

func (uc *SchemaUC) Filters(ctx context.Context, categoryID uuid.UUID) (*domain.FilterSchema, error) {
	if uc.Cache == nil {
		return uc.build(ctx, categoryID)
	}
	return uc.Cache.GetOrCompute(categoryID, func() (*domain.FilterSchema, error) {
		return uc.build(ctx, categoryID)
	})
}

func (uc *SchemaUC) build(ctx context.Context, categoryID uuid.UUID) (*domain.FilterSchema, error) {
	filters := make([]domain.Filter, 0, 8)

	brand, err := uc.brandFilter(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	filters = append(filters, brand)

	price, err := uc.priceFilter(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	filters = append(filters, price)

	filters = append(filters, domain.Filter{
		Key:   domain.FilterKeyDiscount,
		Label: "Discount",
		Kind:  domain.KindBoolean,
		Meta:  boolMeta(),
	})

	bound, err := uc.Attrs.Bindings(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	for i := range bound {
		ba := &bound[i]
		switch ba.Attribute.Slug {
		case domain.FilterKeyBrand, domain.FilterKeyPrice, domain.FilterKeyDiscount:
			// attribute keys may never shadow system filters
			continue
		}
		f, ok, err := uc.attributeFilter(ctx, categoryID, ba)
		if err != nil {
			return nil, err
		}
		if ok {
			filters = append(filters, f)
		}
	}

	for i := range filters {
		filters[i].Order = i + 1
	}

	return &domain.FilterSchema{CategoryID: categoryID, Filters: filters, BuiltAt: time.Now()}, nil
}

func (uc *SchemaUC) brandFilter(ctx context.Context, categoryID uuid.UUID) (domain.Filter, error) {
	brands, err := uc.Facets.Brands(ctx, categoryID)
	if err != nil {
		return domain.Filter{}, err
	}
	seen := make(map[string]struct{}, len(brands))
	uniq := make([]string, 0, len(brands))
	for _, b := range brands {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		k := strings.ToLower(b)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, b)
	}
	// natural order: case-insensitive, digit runs compared numerically
	collate.New(language.Und, collate.Numeric, collate.Loose).SortStrings(uniq)

	opts := make([]domain.FilterOptionMeta, 0, len(uniq))
	for _, b := range uniq {
		opts = append(opts, domain.FilterOptionMeta{V: b, L: b})
	}
	return domain.Filter{
		Key:   domain.FilterKeyBrand,
		Label: "Brand",
		Kind:  domain.KindMultiselect,
		Meta:  domain.FilterMeta{Options: opts},
	}, nil
}

func (uc *SchemaUC) priceFilter(ctx context.Context, categoryID uuid.UUID) (domain.Filter, error) {
	min, max, err := uc.Facets.PriceBounds(ctx, categoryID)
	if err != nil {
		return domain.Filter{}, err
	}
	lo, hi := 0.0, 0.0
	if min != nil {
		lo = *min
	}
	if max != nil {
		hi = *max
	}
	if hi <= lo {
		hi = lo + 1
	}
	step := priceStep(lo, hi)
	decimals := 0
	return domain.Filter{
		Key:   domain.FilterKeyPrice,
		Label: "Price",
		Kind:  domain.KindRange,
		Meta: domain.FilterMeta{
			Min:      &lo,
			Max:      &hi,
			Step:     domain.StepString(step),
			Decimals: &decimals,
		},
	}, nil
}

// priceStep derives a readable slider step from 1% of the price range, rounded
// down to the nearest 100 for wide ranges and the nearest 10 otherwise.
func priceStep(min, max float64) float64 {
	rough := (max - min) / 100
	var step float64
	if rough >= 100 {
		step = math.Floor(rough/100) * 100
	} else {
		step = math.Floor(rough/10) * 10
	}
	if step < 1 {
		step = 1
	}
	return step
}

func boolMeta() domain.FilterMeta {
	return domain.FilterMeta{Options: []domain.FilterOptionMeta{
		{V: "1", L: "Yes"},
		{V: "0", L: "No"},
	}}
}

func (uc *SchemaUC) attributeFilter(ctx context.Context, categoryID uuid.UUID, ba *domain.BoundAttribute) (domain.Filter, bool, error) {
	a := &ba.Attribute
	b := &ba.Binding

	if a.UsesOptions {
		counts, err := uc.Facets.OptionCounts(ctx, categoryID, a.ID)
		if err != nil {
			return domain.Filter{}, false, err
		}
		if len(counts) <= 1 {
			// a single-valued facet filters nothing
			return domain.Filter{}, false, nil
		}
		sortOptionCounts(counts)
		opts := make([]domain.FilterOptionMeta, 0, len(counts))
		for _, c := range counts {
			opts = append(opts, domain.FilterOptionMeta{V: c.OptionID.String(), L: c.Value, Count: c.Count})
		}
		return domain.Filter{
			Key:   a.Slug,
			Label: a.Name,
			Kind:  domain.ResolveFilterKind(a, b),
			Meta:  domain.FilterMeta{Options: opts},
		}, true, nil
	}

	switch a.DataType {
	case domain.TypeBoolean:
		return domain.Filter{Key: a.Slug, Label: a.Name, Kind: domain.KindBoolean, Meta: boolMeta()}, true, nil

	case domain.TypeNumber, domain.TypeRange:
		factor, offset := 1.0, 0.0
		if a.DefaultUnit != nil {
			factor, offset = a.DefaultUnit.SIFactor, a.DefaultUnit.SIOffset
		}
		minSI, maxSI, err := uc.Facets.NumericBoundsSI(ctx, categoryID, a.ID, factor, offset)
		if err != nil {
			return domain.Filter{}, false, err
		}
		if minSI == nil || maxSI == nil {
			return domain.Filter{}, false, nil
		}
		unit := domain.ResolveDisplayUnit(a, b)
		format := domain.ResolveNumberFormat(a, b)
		lo := domain.Quantize(unit.FromSI(*minSI), format.Decimals, format.Rounding)
		hi := domain.Quantize(unit.FromSI(*maxSI), format.Decimals, format.Rounding)
		if lo == hi {
			return domain.Filter{}, false, nil
		}
		suffix := ""
		if unit != nil {
			suffix = unit.Symbol
		}
		decimals := format.Decimals
		return domain.Filter{
			Key:   a.Slug,
			Label: a.Name,
			Kind:  domain.KindRange,
			Meta: domain.FilterMeta{
				Min:      &lo,
				Max:      &hi,
				Step:     domain.StepString(format.Step),
				Decimals: &decimals,
				Suffix:   suffix,
			},
		}, true, nil

	case domain.TypeText:
		counts, err := uc.Facets.TextCounts(ctx, categoryID, a.ID, 100)
		if err != nil {
			return domain.Filter{}, false, err
		}
		if len(counts) <= 1 {
			return domain.Filter{}, false, nil
		}
		opts := make([]domain.FilterOptionMeta, 0, len(counts))
		for _, c := range counts {
			opts = append(opts, domain.FilterOptionMeta{V: c.Value, L: c.Value, Count: c.Count})
		}
		return domain.Filter{
			Key:   a.Slug,
			Label: a.Name,
			Kind:  domain.KindMultiselect,
			Meta:  domain.FilterMeta{Options: opts},
		}, true, nil
	}

	return domain.Filter{}, false, nil
}

// sortOptionCounts orders a facet by explicit sort order (zero means
// unordered and goes last), then occurrence count descending, then label.
func sortOptionCounts(counts []domain.OptionCount) {
	sort.SliceStable(counts, func(i, j int) bool {
		si, sj := counts[i].SortOrder, counts[j].SortOrder
		if si != sj {
			if si == 0 {
				return false
			}
			if sj == 0 {
				return true
			}
			return si < sj
		}
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Value < counts[j].Value
	})
}
