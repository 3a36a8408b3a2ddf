package domain

import (
	"time"

	"github.com/google/uuid"
)

// FreeFormValue is the single typed row a product holds for a non-options
// attribute. Numeric fields are persisted twice: once in the unit the value
// was entered in (ValueNumber/ValueMin/ValueMax) and once in canonical SI
// form. The SI columns are authoritative for querying; the plain columns are
// a display convenience and survive from the pre-SI layout, so rows written
// before the backfill may carry only them.
type FreeFormValue struct {
	ProductID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	AttributeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ValueText   *string   `gorm:"type:text"`
	ValueBool   *bool
	ValueNumber *float64 `gorm:"type:decimal(20,6)"`
	ValueSI     *float64 `gorm:"type:decimal(24,9)"`
	ValueMin    *float64 `gorm:"type:decimal(20,6)"`
	ValueMax    *float64 `gorm:"type:decimal(20,6)"`
	ValueMinSI  *float64 `gorm:"type:decimal(24,9)"`
	ValueMaxSI  *float64 `gorm:"type:decimal(24,9)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OptionAssignment links a product to one pre-defined option of an
// attribute. The triple is the whole identity; several rows per
// (product, attribute) form a multi-select.
type OptionAssignment struct {
	ProductID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	AttributeID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	AttributeOptionID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// AssignedOption is an assignment joined with its option row, as the bulk
// compare loader returns it.
type AssignedOption struct {
	ProductID   uuid.UUID
	AttributeID uuid.UUID
	OptionID    uuid.UUID
	Value       string
	SortOrder   int
}

type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueText
	ValueBool
	ValueNumber
	ValueRange
	ValueOptions
)

// AttrValue is the in-memory variant of one product×attribute value. Kind
// says which fields are meaningful; every consumer switches on it
// exhaustively instead of probing optional fields.
type AttrValue struct {
	Kind      ValueKind
	Text      string
	Bool      bool
	NumberSI  float64
	MinSI     *float64
	MaxSI     *float64
	OptionIDs []uuid.UUID
	Options   []string
}

// FreeFormAttrValue lifts a stored row into the variant form, resolving the
// effective SI numbers with the legacy fallback (SI column first, else the
// display-unit column converted through the attribute's own unit).
func FreeFormAttrValue(a *Attribute, row *FreeFormValue) AttrValue {
	if a == nil || row == nil {
		return AttrValue{Kind: ValueNone}
	}
	switch a.DataType {
	case TypeText:
		if row.ValueText == nil || *row.ValueText == "" {
			return AttrValue{Kind: ValueNone}
		}
		return AttrValue{Kind: ValueText, Text: *row.ValueText}
	case TypeBoolean:
		if row.ValueBool == nil {
			return AttrValue{Kind: ValueNone}
		}
		return AttrValue{Kind: ValueBool, Bool: *row.ValueBool}
	case TypeNumber:
		si := effectiveSI(a.DefaultUnit, row.ValueSI, row.ValueNumber)
		if si == nil {
			return AttrValue{Kind: ValueNone}
		}
		return AttrValue{Kind: ValueNumber, NumberSI: *si}
	case TypeRange:
		lo := effectiveSI(a.DefaultUnit, row.ValueMinSI, row.ValueMin)
		hi := effectiveSI(a.DefaultUnit, row.ValueMaxSI, row.ValueMax)
		if lo == nil && hi == nil {
			return AttrValue{Kind: ValueNone}
		}
		return AttrValue{Kind: ValueRange, MinSI: lo, MaxSI: hi}
	}
	return AttrValue{Kind: ValueNone}
}

func effectiveSI(u *Unit, si, raw *float64) *float64 {
	if si != nil {
		return si
	}
	if raw != nil {
		v := u.ToSI(*raw)
		return &v
	}
	return nil
}
