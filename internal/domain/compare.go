package domain

import "github.com/google/uuid"

// CompareCell is one attribute×product entry of the matrix. Label is the
// locale-formatted human string; Normalized is the unit-independent value
// used for the equality check and must never be rendered.
type CompareCell struct {
	Label      string `json:"label"`
	Normalized any    `json:"-"`
}

type CompareRow struct {
	AttributeID uuid.UUID `json:"attribute_id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Group       string    `json:"group,omitempty"`
	Suffix      string    `json:"suffix,omitempty"`
	AllEqual    bool      `json:"all_equal"`
	FilledCount int       `json:"filled_count"`
}

type CompareColumn struct {
	ProductID uuid.UUID     `json:"product_id"`
	Slug      string        `json:"slug"`
	Name      string        `json:"name"`
	Brand     string        `json:"brand,omitempty"`
	Values    []CompareCell `json:"values"`
}

// CompareMatrix is the attribute×product grid: Products[i].Values is
// parallel to Attributes.
type CompareMatrix struct {
	Attributes []CompareRow    `json:"attributes"`
	Products   []CompareColumn `json:"products"`
}

type CompareOptions struct {
	HideEqual bool
	HideEmpty bool
}

// SpecRow is one line of a single product's spec sheet.
type SpecRow struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
	Label string `json:"label"`
}
