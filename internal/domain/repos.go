package domain

import (
	"context"

	"github.com/google/uuid"
)

type UnitRepo interface {
	ByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	List(ctx context.Context) ([]Unit, error)
	Save(ctx context.Context, u *Unit) error
}

type AttributeRepo interface {
	ByID(ctx context.Context, id uuid.UUID) (*Attribute, error)
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]Attribute, error)
	BySlug(ctx context.Context, slug string) (*Attribute, error)
	Save(ctx context.Context, a *Attribute) error
	Options(ctx context.Context, attributeID uuid.UUID) ([]AttributeOption, error)
	SaveOption(ctx context.Context, o *AttributeOption) error
	DeleteOption(ctx context.Context, id uuid.UUID) error
	// Bindings returns the attributes bound to a category ordered by
	// filter_order, with attribute and unit rows preloaded.
	Bindings(ctx context.Context, categoryID uuid.UUID) ([]BoundAttribute, error)
	Binding(ctx context.Context, categoryID, attributeID uuid.UUID) (*CategoryAttributeBinding, error)
	UpsertBinding(ctx context.Context, b *CategoryAttributeBinding) error
	// BoundCategories lists the categories an attribute is bound to, for
	// cache invalidation fan-out on attribute edits.
	BoundCategories(ctx context.Context, attributeID uuid.UUID) ([]uuid.UUID, error)
}

// OptionCount is one option facet entry with its occurrence count among a
// category's active products.
type OptionCount struct {
	OptionID  uuid.UUID
	Value     string
	SortOrder int
	Count     int64
}

type TextCount struct {
	Value string
	Count int64
}

// FacetReader supplies the aggregate scans the schema builder runs per
// category. All aggregates see active products of the category only.
type FacetReader interface {
	Brands(ctx context.Context, categoryID uuid.UUID) ([]string, error)
	PriceBounds(ctx context.Context, categoryID uuid.UUID) (min, max *float64, err error)
	OptionCounts(ctx context.Context, categoryID, attributeID uuid.UUID) ([]OptionCount, error)
	// NumericBoundsSI aggregates the effective SI bounds of an attribute's
	// rows, converting legacy display-unit columns through the given
	// transform when the SI columns are null.
	NumericBoundsSI(ctx context.Context, categoryID, attributeID uuid.UUID, factor, offset float64) (min, max *float64, err error)
	TextCounts(ctx context.Context, categoryID, attributeID uuid.UUID, limit int) ([]TextCount, error)
}

type ValueRepo interface {
	FreeForm(ctx context.Context, productID, attributeID uuid.UUID) (*FreeFormValue, error)
	FreeFormByProducts(ctx context.Context, productIDs []uuid.UUID) ([]FreeFormValue, error)
	ProductOptions(ctx context.Context, productID, attributeID uuid.UUID) ([]AttributeOption, error)
	AssignmentsByProducts(ctx context.Context, productIDs []uuid.UUID) ([]AssignedOption, error)
	UpsertFreeForm(ctx context.Context, row *FreeFormValue) error
	// ReplaceOptions rewrites the assignment set of (product, attribute)
	// in one transaction: delete then insert.
	ReplaceOptions(ctx context.Context, productID, attributeID uuid.UUID, optionIDs []uuid.UUID) error
	DeleteFreeForm(ctx context.Context, productID, attributeID uuid.UUID) error
}

type ProductRepo interface {
	ByID(ctx context.Context, id uuid.UUID) (*Product, error)
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	BySlug(ctx context.Context, slug string) (*Product, error)
	Save(ctx context.Context, p *Product) error
	List(ctx context.Context, q ProductQuery) ([]Product, int64, error)
	CategoriesOf(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error)
	PrimaryCategory(ctx context.Context, productID uuid.UUID) (*uuid.UUID, error)
}
