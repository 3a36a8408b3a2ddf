package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Slug          string            `gorm:"uniqueIndex;size:140"`
	Name          string            `gorm:"size:180"`
	Brand         string            `gorm:"size:100;index"`
	PriceAmount   float64           `gorm:"type:decimal(12,2)"`
	DiscountPrice *float64          `gorm:"type:decimal(12,2)"`
	Active        bool              `gorm:"default:true;index"`
	Specs         map[string]string `gorm:"type:jsonb;serializer:json"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasDiscount reports a real discount: a positive discount price strictly
// below the list price.
func (p *Product) HasDiscount() bool {
	return p != nil && p.DiscountPrice != nil && *p.DiscountPrice > 0 && *p.DiscountPrice < p.PriceAmount
}

type Category struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Slug      string     `gorm:"uniqueIndex;size:140"`
	Name      string     `gorm:"size:180"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductCategory is the membership pivot; exactly one row per product
// carries IsPrimary.
type ProductCategory struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	IsPrimary  bool      `gorm:"default:false"`
}

// ProductQuery is the compiled, storage-neutral form of a filtered listing
// request: category scope plus the conjunction of per-filter conditions.
type ProductQuery struct {
	CategoryID *uuid.UUID
	Conditions []Condition
	Sort       string
	Page       int
	PageSize   int
}
