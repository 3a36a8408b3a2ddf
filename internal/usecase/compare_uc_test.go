package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/induparts/catalog/internal/domain"
)

type compareFixture struct {
	uc    *CompareUC
	attrs *fakeAttrRepo
	vals  *fakeValueRepo
	prods *fakeProductRepo
	p1    uuid.UUID
	p2    uuid.UUID
}

func newCompareFixture() *compareFixture {
	f := &compareFixture{
		attrs: &fakeAttrRepo{},
		vals:  &fakeValueRepo{},
		prods: &fakeProductRepo{},
		p1:    uuid.New(),
		p2:    uuid.New(),
	}
	f.prods.products = []domain.Product{
		{ID: f.p1, Slug: "drill-a", Name: "Drill A", Brand: "Bosch"},
		{ID: f.p2, Slug: "drill-b", Name: "Drill B", Brand: "Makita"},
	}
	f.uc = &CompareUC{Products: f.prods, Values: f.vals, Attrs: f.attrs}
	return f
}

func TestCompareOptionEqualityIgnoresAssignmentOrder(t *testing.T) {
	f := newCompareFixture()
	attrID := uuid.New()
	red, blue := uuid.New(), uuid.New()
	f.attrs.attrs = []domain.Attribute{{ID: attrID, Slug: "color", Name: "Color", UsesOptions: true}}
	f.vals.assigned = []domain.AssignedOption{
		{ProductID: f.p1, AttributeID: attrID, OptionID: red, Value: "Red", SortOrder: 1},
		{ProductID: f.p1, AttributeID: attrID, OptionID: blue, Value: "Blue", SortOrder: 2},
		// same pair, stored in the other order
		{ProductID: f.p2, AttributeID: attrID, OptionID: blue, Value: "Blue", SortOrder: 2},
		{ProductID: f.p2, AttributeID: attrID, OptionID: red, Value: "Red", SortOrder: 1},
	}

	m, err := f.uc.Build(context.Background(), []uuid.UUID{f.p1, f.p2}, domain.CompareOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Attributes) != 1 {
		t.Fatalf("rows = %+v", m.Attributes)
	}
	row := m.Attributes[0]
	if !row.AllEqual {
		t.Error("same option set in different order must compare equal")
	}
	// display order follows option sort order on both columns
	for j := range m.Products {
		if got := m.Products[j].Values[0].Label; got != "Red, Blue" {
			t.Errorf("column %d label = %q", j, got)
		}
	}
}

func TestCompareMissingValueNotEqualToPresent(t *testing.T) {
	f := newCompareFixture()
	attrID := uuid.New()
	kg := &domain.Unit{ID: uuid.New(), Symbol: "kg", SIFactor: 1000}
	f.attrs.attrs = []domain.Attribute{{
		ID: attrID, Slug: "weight", Name: "Weight",
		DataType: domain.TypeNumber, DefaultUnit: kg, NumberDecimals: intp(1),
	}}
	si := 12500.0 // 12.5 kg in grams
	f.vals.freeForm = []domain.FreeFormValue{
		{ProductID: f.p1, AttributeID: attrID, ValueSI: &si},
	}

	m, err := f.uc.Build(context.Background(), []uuid.UUID{f.p1, f.p2}, domain.CompareOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Attributes) != 1 {
		t.Fatalf("rows = %+v", m.Attributes)
	}
	row := m.Attributes[0]
	if row.AllEqual {
		t.Error("value vs gap must not compare equal")
	}
	if row.FilledCount != 1 {
		t.Errorf("filled = %d, want 1", row.FilledCount)
	}
	if got := m.Products[0].Values[0].Label; got != "12.5 kg" {
		t.Errorf("label = %q", got)
	}
	if got := m.Products[1].Values[0].Label; got != "" {
		t.Errorf("empty cell label = %q", got)
	}
}

func TestCompareHideFlags(t *testing.T) {
	f := newCompareFixture()
	equalAttr, emptyAttr, diffAttr := uuid.New(), uuid.New(), uuid.New()
	f.attrs.attrs = []domain.Attribute{
		{ID: equalAttr, Slug: "material", Name: "Material", DataType: domain.TypeText},
		{ID: emptyAttr, Slug: "coating", Name: "Coating", DataType: domain.TypeText},
		{ID: diffAttr, Slug: "thread", Name: "Thread", DataType: domain.TypeText},
	}
	steel := "Steel"
	g12, g34 := "G1/2", "G3/4"
	f.vals.freeForm = []domain.FreeFormValue{
		{ProductID: f.p1, AttributeID: equalAttr, ValueText: &steel},
		{ProductID: f.p2, AttributeID: equalAttr, ValueText: &steel},
		// coating row exists but carries no value on either product
		{ProductID: f.p1, AttributeID: emptyAttr},
		{ProductID: f.p1, AttributeID: diffAttr, ValueText: &g12},
		{ProductID: f.p2, AttributeID: diffAttr, ValueText: &g34},
	}

	m, err := f.uc.Build(context.Background(), []uuid.UUID{f.p1, f.p2},
		domain.CompareOptions{HideEqual: true, HideEmpty: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Attributes) != 1 || m.Attributes[0].Key != "thread" {
		t.Fatalf("rows = %+v", m.Attributes)
	}
}

func TestCompareRowOrdering(t *testing.T) {
	f := newCompareFixture()
	eqAttr, sparseAttr, fullAttr := uuid.New(), uuid.New(), uuid.New()
	f.attrs.attrs = []domain.Attribute{
		{ID: eqAttr, Slug: "material", Name: "Material", Group: "Body", DataType: domain.TypeText},
		{ID: sparseAttr, Slug: "coating", Name: "Coating", Group: "Body", DataType: domain.TypeText},
		{ID: fullAttr, Slug: "thread", Name: "Thread", Group: "Body", DataType: domain.TypeText},
	}
	steel, zinc, g12, g34 := "Steel", "Zinc", "G1/2", "G3/4"
	f.vals.freeForm = []domain.FreeFormValue{
		{ProductID: f.p1, AttributeID: eqAttr, ValueText: &steel},
		{ProductID: f.p2, AttributeID: eqAttr, ValueText: &steel},
		{ProductID: f.p1, AttributeID: sparseAttr, ValueText: &zinc},
		{ProductID: f.p1, AttributeID: fullAttr, ValueText: &g12},
		{ProductID: f.p2, AttributeID: fullAttr, ValueText: &g34},
	}

	m, err := f.uc.Build(context.Background(), []uuid.UUID{f.p1, f.p2}, domain.CompareOptions{})
	if err != nil {
		t.Fatal(err)
	}
	got := make([]string, len(m.Attributes))
	for i, r := range m.Attributes {
		got[i] = r.Key
	}
	// differing rows first, denser before sparser, equal row last
	want := []string{"thread", "coating", "material"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row order = %v, want %v", got, want)
		}
	}
}

func TestCompareRangeLabels(t *testing.T) {
	f := newCompareFixture()
	attrID := uuid.New()
	bar := &domain.Unit{ID: uuid.New(), Symbol: "bar", SIFactor: 100000}
	f.attrs.attrs = []domain.Attribute{{
		ID: attrID, Slug: "pressure", Name: "Pressure",
		DataType: domain.TypeRange, DefaultUnit: bar, NumberDecimals: intp(2),
	}}
	lo, hi := 150000.0, 500000.0
	f.vals.freeForm = []domain.FreeFormValue{
		{ProductID: f.p1, AttributeID: attrID, ValueMinSI: &lo, ValueMaxSI: &hi},
		{ProductID: f.p2, AttributeID: attrID, ValueMinSI: &lo},
	}

	m, err := f.uc.Build(context.Background(), []uuid.UUID{f.p1, f.p2}, domain.CompareOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Products[0].Values[0].Label; got != "1.50—5.00 bar" {
		t.Errorf("closed range label = %q", got)
	}
	if got := m.Products[1].Values[0].Label; got != "≥ 1.50 bar" {
		t.Errorf("open range label = %q", got)
	}
	if m.Attributes[0].AllEqual {
		t.Error("different bounds must not compare equal")
	}
	if m.Attributes[0].Suffix != "bar" {
		t.Errorf("suffix = %q", m.Attributes[0].Suffix)
	}
}

func TestCompareKeepsRequestedColumnOrder(t *testing.T) {
	f := newCompareFixture()
	m, err := f.uc.Build(context.Background(), []uuid.UUID{f.p2, f.p1, uuid.New()}, domain.CompareOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Products) != 2 {
		t.Fatalf("columns = %+v", m.Products)
	}
	if m.Products[0].ProductID != f.p2 || m.Products[1].ProductID != f.p1 {
		t.Errorf("column order = %v, %v", m.Products[0].Slug, m.Products[1].Slug)
	}
}
