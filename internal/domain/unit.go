package domain

import (
	"math"

	"github.com/google/uuid"
)

// siFactorEps is the smallest divisor magnitude allowed when converting back
// from SI. Factors closer to zero than this are clamped so a misconfigured
// unit can never inject NaN/Inf into computed bounds.
const siFactorEps = 1e-12

// Unit is one measurable unit inside a dimension family (length, pressure,
// temperature, ...). Conversion to the dimension's canonical SI value is the
// affine transform si = raw*SIFactor + SIOffset.
type Unit struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"size:100"`
	Symbol     string    `gorm:"size:30"`
	Dimension  string    `gorm:"size:60;index"`
	BaseSymbol string    `gorm:"size:30"`
	SIFactor   float64   `gorm:"type:decimal(24,12);default:1"`
	SIOffset   float64   `gorm:"type:decimal(24,12);default:0"`
}

// ToSI converts a raw value in this unit to the canonical SI value.
// A nil unit acts as the identity transform.
func (u *Unit) ToSI(v float64) float64 {
	if u == nil {
		return v
	}
	return v*u.SIFactor + u.SIOffset
}

// FromSI converts a canonical SI value back to this unit.
func (u *Unit) FromSI(si float64) float64 {
	if u == nil {
		return si
	}
	f := u.SIFactor
	if math.Abs(f) < siFactorEps {
		f = math.Copysign(siFactorEps, f)
	}
	return (si - u.SIOffset) / f
}

// ConvertUnits re-expresses v, given in from, in to. Converting a unit to
// itself is a strict no-op even when factors are present, so repeated
// conversion cannot accumulate float drift.
func ConvertUnits(v float64, from, to *Unit) float64 {
	if from == nil && to == nil {
		return v
	}
	if from != nil && to != nil && from.ID == to.ID {
		return v
	}
	return to.FromSI(from.ToSI(v))
}

type RoundingMode string

const (
	RoundHalf     RoundingMode = "round"
	RoundFloor    RoundingMode = "floor"
	RoundCeil     RoundingMode = "ceil"
	RoundTruncate RoundingMode = "truncate"
)

// Quantize applies the rounding mode at the given decimal precision.
// Truncate rounds toward zero. Negative decimals are clamped to 0.
func Quantize(v float64, decimals int, mode RoundingMode) float64 {
	if decimals < 0 {
		decimals = 0
	}
	pow := math.Pow(10, float64(decimals))
	scaled := v * pow
	// values a hair off an integer grid point (float noise from the
	// scaling multiply) snap to it before the directional modes apply,
	// which keeps Quantize idempotent
	if n := math.Round(scaled); math.Abs(scaled-n) < 1e-9 {
		scaled = n
	}
	switch mode {
	case RoundFloor:
		scaled = math.Floor(scaled)
	case RoundCeil:
		scaled = math.Ceil(scaled)
	case RoundTruncate:
		scaled = math.Trunc(scaled)
	default:
		scaled = math.Round(scaled)
	}
	return scaled / pow
}
