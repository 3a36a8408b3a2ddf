package domain

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type DataType string

const (
	TypeText    DataType = "text"
	TypeNumber  DataType = "number"
	TypeBoolean DataType = "boolean"
	TypeRange   DataType = "range"
)

// Attribute is one entry of the attribute definition registry. UsesOptions is
// orthogonal to DataType: when set, values live in the option-assignment
// store and DataType only describes what the options represent.
type Attribute struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Slug           string     `gorm:"uniqueIndex;size:140"`
	Name           string     `gorm:"size:180"`
	Group          string     `gorm:"size:100"`
	DataType       DataType   `gorm:"type:varchar(10);default:'text'"`
	UsesOptions    bool       `gorm:"default:false"`
	FilterUI       string     `gorm:"size:20"`
	DefaultUnitID  *uuid.UUID `gorm:"type:uuid"`
	DefaultUnit    *Unit      `gorm:"foreignKey:DefaultUnitID"`
	NumberDecimals *int
	NumberStep     *float64     `gorm:"type:decimal(20,10)"`
	NumberRounding RoundingMode `gorm:"type:varchar(10)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AttributeOption is one discrete choice of an options attribute.
type AttributeOption struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	AttributeID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_attr_option_value"`
	Value       string    `gorm:"size:255;uniqueIndex:idx_attr_option_value"`
	SortOrder   int       `gorm:"default:0"`
}

// CategoryAttributeBinding attaches an attribute to a category and carries
// the per-category override layer: any nil/zero override falls back to the
// attribute's own default.
type CategoryAttributeBinding struct {
	CategoryID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	AttributeID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	IsRequired       bool      `gorm:"default:false"`
	FilterOrder      int       `gorm:"default:0"`
	CompareOrder     int       `gorm:"default:0"`
	VisibleInSpecs   bool      `gorm:"default:true"`
	VisibleInCompare bool      `gorm:"default:true"`
	FilterUI         string    `gorm:"size:20"`
	DisplayUnitID    *uuid.UUID
	DisplayUnit      *Unit `gorm:"foreignKey:DisplayUnitID"`
	NumberDecimals   *int
	NumberStep       *float64     `gorm:"type:decimal(20,10)"`
	NumberRounding   RoundingMode `gorm:"type:varchar(10)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BoundAttribute is an attribute together with its binding for one category,
// as loaded by the repo with units preloaded.
type BoundAttribute struct {
	Attribute Attribute
	Binding   CategoryAttributeBinding
}

// NumberFormat is the fully resolved numeric presentation policy.
type NumberFormat struct {
	Decimals int
	Step     float64
	Rounding RoundingMode
}

// ResolveDisplayUnit picks the category's display unit if set, else the
// attribute's own default unit, else nil (identity).
func ResolveDisplayUnit(a *Attribute, b *CategoryAttributeBinding) *Unit {
	if b != nil && b.DisplayUnit != nil {
		return b.DisplayUnit
	}
	if a != nil {
		return a.DefaultUnit
	}
	return nil
}

// ResolveNumberFormat layers the binding's overrides over the attribute's
// defaults. When only decimals are overridden the step is recomputed as
// 10^-decimals so the pair stays consistent; an explicit positive step wins
// verbatim; a non-positive step counts as unset.
func ResolveNumberFormat(a *Attribute, b *CategoryAttributeBinding) NumberFormat {
	decimals := 0
	if a != nil && a.NumberDecimals != nil {
		decimals = *a.NumberDecimals
	}
	if b != nil && b.NumberDecimals != nil {
		decimals = *b.NumberDecimals
	}
	if decimals < 0 {
		decimals = 0
	}

	step := 0.0
	switch {
	case b != nil && b.NumberStep != nil:
		step = *b.NumberStep
		if step <= 0 {
			step = math.Pow(10, -float64(decimals))
		}
	case b != nil && b.NumberDecimals != nil:
		// decimals-only override: the attribute's old step would no
		// longer match, recompute from the new precision
		step = math.Pow(10, -float64(decimals))
	case a != nil && a.NumberStep != nil && *a.NumberStep > 0:
		step = *a.NumberStep
	default:
		step = math.Pow(10, -float64(decimals))
	}

	rounding := RoundHalf
	if a != nil && a.NumberRounding != "" {
		rounding = a.NumberRounding
	}
	if b != nil && b.NumberRounding != "" {
		rounding = b.NumberRounding
	}

	return NumberFormat{Decimals: decimals, Step: step, Rounding: rounding}
}

// StepString renders a step as a canonical decimal string, no exponent and
// no trailing zeros.
func StepString(step float64) string {
	return strconv.FormatFloat(step, 'f', -1, 64)
}

// ResolveFilterKind maps the filter-ui hint of an options attribute to the
// schema kind: dropdown means single select, everything else multiselect.
func ResolveFilterKind(a *Attribute, b *CategoryAttributeBinding) FilterKind {
	ui := ""
	if a != nil {
		ui = a.FilterUI
	}
	if b != nil && b.FilterUI != "" {
		ui = b.FilterUI
	}
	if ui == "dropdown" {
		return KindSelect
	}
	return KindMultiselect
}

// SingleSelect reports whether an options attribute admits at most one
// assignment per product.
func (a *Attribute) SingleSelect() bool {
	return a != nil && a.UsesOptions && a.FilterUI == "dropdown"
}
