package domain

import (
	"time"

	"github.com/google/uuid"
)

type FilterKind string

const (
	KindSelect      FilterKind = "select"
	KindMultiselect FilterKind = "multiselect"
	KindBoolean     FilterKind = "boolean"
	KindRange       FilterKind = "range"
)

// System filter keys. Attribute-derived filters may never shadow these.
const (
	FilterKeyBrand    = "brand"
	FilterKeyPrice    = "price"
	FilterKeyDiscount = "discount"
)

type FilterOptionMeta struct {
	V     string `json:"v"`
	L     string `json:"l"`
	Count int64  `json:"count,omitempty"`
}

// FilterMeta varies by kind: options for select/multiselect/boolean,
// min/max/step/decimals/suffix for range.
type FilterMeta struct {
	Options  []FilterOptionMeta `json:"options,omitempty"`
	Min      *float64           `json:"min,omitempty"`
	Max      *float64           `json:"max,omitempty"`
	Step     string             `json:"step,omitempty"`
	Decimals *int               `json:"decimals,omitempty"`
	Suffix   string             `json:"suffix,omitempty"`
}

type Filter struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Kind  FilterKind `json:"kind"`
	Order int        `json:"order"`
	Meta  FilterMeta `json:"meta"`
}

// FilterSchema is the ordered filter list built for one category; this is
// what the schema cache holds.
type FilterSchema struct {
	CategoryID uuid.UUID `json:"category_id"`
	Filters    []Filter  `json:"filters"`
	BuiltAt    time.Time `json:"built_at"`
}

// SelectedFilter is one entry of the external selected-filters payload.
// Unknown keys and malformed shapes normalize to "no constraint".
type SelectedFilter struct {
	Key    string   `json:"key"`
	Kind   string   `json:"kind"`
	Values []string `json:"values,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Bool   *bool    `json:"bool,omitempty"`
}

type CondOp int

const (
	CondBrandIn CondOp = iota
	CondPriceMin
	CondPriceMax
	CondDiscountOnly
	CondOptionIn
	CondRangeSI
	CondBoolTrue
	CondBoolNotTrue
	CondTextIn
)

// Condition is one compiled predicate. Op says which fields apply. For
// CondRangeSI the bounds are already in SI and UnitFactor/UnitOffset carry
// the attribute's own unit transform, which the storage layer needs to fold
// legacy pre-SI columns into its fallback chain.
type Condition struct {
	Op          CondOp
	Brands      []string
	Price       float64
	AttributeID uuid.UUID
	OptionIDs   []uuid.UUID
	MinSI       *float64
	MaxSI       *float64
	UnitFactor  float64
	UnitOffset  float64
	Texts       []string
}
