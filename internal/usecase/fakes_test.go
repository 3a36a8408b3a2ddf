package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/induparts/catalog/internal/domain"
)

type fakeAttrRepo struct {
	attrs     []domain.Attribute
	bindings  map[uuid.UUID][]domain.BoundAttribute
	options   map[uuid.UUID][]domain.AttributeOption
	boundCats map[uuid.UUID][]uuid.UUID
	saved     []domain.Attribute
}

func (f *fakeAttrRepo) ByID(_ context.Context, id uuid.UUID) (*domain.Attribute, error) {
	for i := range f.attrs {
		if f.attrs[i].ID == id {
			return &f.attrs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAttrRepo) ByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Attribute, error) {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := []domain.Attribute{}
	for _, a := range f.attrs {
		if _, ok := want[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttrRepo) BySlug(_ context.Context, slug string) (*domain.Attribute, error) {
	for i := range f.attrs {
		if f.attrs[i].Slug == slug {
			return &f.attrs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAttrRepo) Save(_ context.Context, a *domain.Attribute) error {
	f.saved = append(f.saved, *a)
	return nil
}

func (f *fakeAttrRepo) Options(_ context.Context, attributeID uuid.UUID) ([]domain.AttributeOption, error) {
	return f.options[attributeID], nil
}

func (f *fakeAttrRepo) SaveOption(_ context.Context, o *domain.AttributeOption) error {
	f.options[o.AttributeID] = append(f.options[o.AttributeID], *o)
	return nil
}

func (f *fakeAttrRepo) DeleteOption(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeAttrRepo) Bindings(_ context.Context, categoryID uuid.UUID) ([]domain.BoundAttribute, error) {
	return f.bindings[categoryID], nil
}

func (f *fakeAttrRepo) Binding(_ context.Context, categoryID, attributeID uuid.UUID) (*domain.CategoryAttributeBinding, error) {
	for _, ba := range f.bindings[categoryID] {
		if ba.Attribute.ID == attributeID {
			b := ba.Binding
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAttrRepo) UpsertBinding(_ context.Context, _ *domain.CategoryAttributeBinding) error {
	return nil
}

func (f *fakeAttrRepo) BoundCategories(_ context.Context, attributeID uuid.UUID) ([]uuid.UUID, error) {
	return f.boundCats[attributeID], nil
}

type fakeFacets struct {
	brands       []string
	priceMin     *float64
	priceMax     *float64
	optionCounts map[uuid.UUID][]domain.OptionCount
	numeric      map[uuid.UUID][2]*float64
	texts        map[uuid.UUID][]domain.TextCount
}

func (f *fakeFacets) Brands(_ context.Context, _ uuid.UUID) ([]string, error) {
	return f.brands, nil
}

func (f *fakeFacets) PriceBounds(_ context.Context, _ uuid.UUID) (*float64, *float64, error) {
	return f.priceMin, f.priceMax, nil
}

func (f *fakeFacets) OptionCounts(_ context.Context, _, attributeID uuid.UUID) ([]domain.OptionCount, error) {
	return f.optionCounts[attributeID], nil
}

func (f *fakeFacets) NumericBoundsSI(_ context.Context, _, attributeID uuid.UUID, _, _ float64) (*float64, *float64, error) {
	b := f.numeric[attributeID]
	return b[0], b[1], nil
}

func (f *fakeFacets) TextCounts(_ context.Context, _, attributeID uuid.UUID, _ int) ([]domain.TextCount, error) {
	return f.texts[attributeID], nil
}

type fakeProductRepo struct {
	products   []domain.Product
	categories map[uuid.UUID][]uuid.UUID
	primary    map[uuid.UUID]uuid.UUID
	lastQuery  domain.ProductQuery
}

func (f *fakeProductRepo) ByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProductRepo) ByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := []domain.Product{}
	for _, p := range f.products {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) BySlug(_ context.Context, slug string) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].Slug == slug {
			return &f.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProductRepo) Save(_ context.Context, p *domain.Product) error {
	f.products = append(f.products, *p)
	return nil
}

func (f *fakeProductRepo) List(_ context.Context, q domain.ProductQuery) ([]domain.Product, int64, error) {
	f.lastQuery = q
	return f.products, int64(len(f.products)), nil
}

func (f *fakeProductRepo) CategoriesOf(_ context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	return f.categories[productID], nil
}

func (f *fakeProductRepo) PrimaryCategory(_ context.Context, productID uuid.UUID) (*uuid.UUID, error) {
	if id, ok := f.primary[productID]; ok {
		return &id, nil
	}
	return nil, nil
}

type fakeValueRepo struct {
	freeForm   []domain.FreeFormValue
	assigned   []domain.AssignedOption
	upserted   []domain.FreeFormValue
	replaced   map[uuid.UUID][]uuid.UUID // attribute id -> option ids of last replace
	deleted    []uuid.UUID               // attribute ids of deleted rows
	prodOption map[uuid.UUID][]domain.AttributeOption
}

func (f *fakeValueRepo) FreeForm(_ context.Context, productID, attributeID uuid.UUID) (*domain.FreeFormValue, error) {
	for i := range f.freeForm {
		if f.freeForm[i].ProductID == productID && f.freeForm[i].AttributeID == attributeID {
			return &f.freeForm[i], nil
		}
	}
	return nil, nil
}

func (f *fakeValueRepo) FreeFormByProducts(_ context.Context, productIDs []uuid.UUID) ([]domain.FreeFormValue, error) {
	want := make(map[uuid.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		want[id] = struct{}{}
	}
	out := []domain.FreeFormValue{}
	for _, v := range f.freeForm {
		if _, ok := want[v.ProductID]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeValueRepo) ProductOptions(_ context.Context, productID, _ uuid.UUID) ([]domain.AttributeOption, error) {
	return f.prodOption[productID], nil
}

func (f *fakeValueRepo) AssignmentsByProducts(_ context.Context, productIDs []uuid.UUID) ([]domain.AssignedOption, error) {
	want := make(map[uuid.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		want[id] = struct{}{}
	}
	out := []domain.AssignedOption{}
	for _, a := range f.assigned {
		if _, ok := want[a.ProductID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeValueRepo) UpsertFreeForm(_ context.Context, row *domain.FreeFormValue) error {
	f.upserted = append(f.upserted, *row)
	return nil
}

func (f *fakeValueRepo) ReplaceOptions(_ context.Context, _, attributeID uuid.UUID, optionIDs []uuid.UUID) error {
	if f.replaced == nil {
		f.replaced = map[uuid.UUID][]uuid.UUID{}
	}
	f.replaced[attributeID] = optionIDs
	return nil
}

func (f *fakeValueRepo) DeleteFreeForm(_ context.Context, _, attributeID uuid.UUID) error {
	f.deleted = append(f.deleted, attributeID)
	return nil
}

type fakeCache struct {
	invalidated    []uuid.UUID
	invalidatedAll bool
}

func (f *fakeCache) GetOrCompute(_ uuid.UUID, compute func() (*domain.FilterSchema, error)) (*domain.FilterSchema, error) {
	return compute()
}

func (f *fakeCache) Invalidate(id uuid.UUID) { f.invalidated = append(f.invalidated, id) }
func (f *fakeCache) InvalidateAll()          { f.invalidatedAll = true }
