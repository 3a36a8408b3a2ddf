package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/induparts/catalog/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

// Effective bound expressions over a free-form row. The column priority is
// load-bearing: rows written before the SI backfill carry only the plain
// columns, and reordering the chain changes which number legacy rows expose.
// The plain columns hold values in the attribute's own unit, hence the
// affine parameters.
const (
	lowerBoundExpr = "COALESCE(v.value_min_si, v.value_si, v.value_max_si, v.value_min * ? + ?, v.value_number * ? + ?, v.value_max * ? + ?)"
	upperBoundExpr = "COALESCE(v.value_max_si, v.value_si, v.value_min_si, v.value_max * ? + ?, v.value_number * ? + ?, v.value_min * ? + ?)"
)

func (r *ProductRepo) ByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) ByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	var list []domain.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) BySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepo) List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error) {
	db := r.db.WithContext(ctx).Model(&domain.Product{}).Where("products.active = ?", true)
	if q.CategoryID != nil {
		db = db.Joins("JOIN product_categories pc ON pc.product_id = products.id AND pc.category_id = ?", *q.CategoryID)
	}
	for _, c := range q.Conditions {
		db = applyCondition(db, c)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch q.Sort {
	case "price_desc":
		db = db.Order("products.price_amount desc")
	case "price_asc":
		db = db.Order("products.price_amount asc")
	case "newest":
		db = db.Order("products.created_at desc")
	default:
		db = db.Order("products.name asc")
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	size := q.PageSize
	if size <= 0 {
		size = 20
	}
	var list []domain.Product
	if err := db.Offset((page - 1) * size).Limit(size).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func applyCondition(db *gorm.DB, c domain.Condition) *gorm.DB {
	switch c.Op {
	case domain.CondBrandIn:
		return db.Where("products.brand IN ?", c.Brands)
	case domain.CondPriceMin:
		return db.Where("products.price_amount >= ?", c.Price)
	case domain.CondPriceMax:
		return db.Where("products.price_amount <= ?", c.Price)
	case domain.CondDiscountOnly:
		return db.Where("products.discount_price IS NOT NULL AND products.discount_price > 0 AND products.discount_price < products.price_amount")
	case domain.CondOptionIn:
		return db.Where(
			"EXISTS (SELECT 1 FROM option_assignments oa WHERE oa.product_id = products.id AND oa.attribute_id = ? AND oa.attribute_option_id IN ?)",
			c.AttributeID, c.OptionIDs)
	case domain.CondRangeSI:
		sql := "EXISTS (SELECT 1 FROM free_form_values v WHERE v.product_id = products.id AND v.attribute_id = ?"
		args := []any{c.AttributeID}
		if c.MinSI != nil {
			sql += " AND " + lowerBoundExpr + " >= ?"
			args = append(args, c.UnitFactor, c.UnitOffset, c.UnitFactor, c.UnitOffset, c.UnitFactor, c.UnitOffset, *c.MinSI)
		}
		if c.MaxSI != nil {
			sql += " AND " + upperBoundExpr + " <= ?"
			args = append(args, c.UnitFactor, c.UnitOffset, c.UnitFactor, c.UnitOffset, c.UnitFactor, c.UnitOffset, *c.MaxSI)
		}
		sql += ")"
		return db.Where(sql, args...)
	case domain.CondBoolTrue:
		return db.Where(
			"EXISTS (SELECT 1 FROM free_form_values v WHERE v.product_id = products.id AND v.attribute_id = ? AND v.value_bool = TRUE)",
			c.AttributeID)
	case domain.CondBoolNotTrue:
		// stored false and never-set are the same answer
		return db.Where(
			"NOT EXISTS (SELECT 1 FROM free_form_values v WHERE v.product_id = products.id AND v.attribute_id = ? AND v.value_bool = TRUE)",
			c.AttributeID)
	case domain.CondTextIn:
		return db.Where(
			"EXISTS (SELECT 1 FROM free_form_values v WHERE v.product_id = products.id AND v.attribute_id = ? AND v.value_text IN ?)",
			c.AttributeID, c.Texts)
	}
	return db
}

func (r *ProductRepo) CategoriesOf(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := r.db.WithContext(ctx).Model(&domain.ProductCategory{}).
		Where("product_id = ?", productID).
		Pluck("category_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ProductRepo) PrimaryCategory(ctx context.Context, productID uuid.UUID) (*uuid.UUID, error) {
	var pc domain.ProductCategory
	err := r.db.WithContext(ctx).
		First(&pc, "product_id = ? AND is_primary = TRUE", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pc.CategoryID, nil
}

// --- facet aggregates for the schema builder ---

func (r *ProductRepo) Brands(ctx context.Context, categoryID uuid.UUID) ([]string, error) {
	brands := []string{}
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Distinct("products.brand").
		Joins("JOIN product_categories pc ON pc.product_id = products.id AND pc.category_id = ?", categoryID).
		Where("products.active = ? AND products.brand <> ''", true).
		Pluck("products.brand", &brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *ProductRepo) PriceBounds(ctx context.Context, categoryID uuid.UUID) (*float64, *float64, error) {
	var row struct {
		Min *float64
		Max *float64
	}
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Select("MIN(products.price_amount) AS min, MAX(products.price_amount) AS max").
		Joins("JOIN product_categories pc ON pc.product_id = products.id AND pc.category_id = ?", categoryID).
		Where("products.active = ? AND products.price_amount > 0", true).
		Scan(&row).Error; err != nil {
		return nil, nil, err
	}
	return row.Min, row.Max, nil
}

func (r *ProductRepo) OptionCounts(ctx context.Context, categoryID, attributeID uuid.UUID) ([]domain.OptionCount, error) {
	var list []domain.OptionCount
	if err := r.db.WithContext(ctx).Model(&domain.OptionAssignment{}).
		Select("o.id AS option_id, o.value, o.sort_order, COUNT(*) AS count").
		Joins("JOIN attribute_options o ON o.id = option_assignments.attribute_option_id").
		Joins("JOIN products p ON p.id = option_assignments.product_id").
		Joins("JOIN product_categories pc ON pc.product_id = p.id AND pc.category_id = ?", categoryID).
		Where("option_assignments.attribute_id = ? AND p.active = ?", attributeID, true).
		Group("o.id, o.value, o.sort_order").
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) NumericBoundsSI(ctx context.Context, categoryID, attributeID uuid.UUID, factor, offset float64) (*float64, *float64, error) {
	var row struct {
		Min *float64
		Max *float64
	}
	if err := r.db.WithContext(ctx).
		Table("free_form_values v").
		Select("MIN("+lowerBoundExpr+") AS min, MAX("+upperBoundExpr+") AS max",
			factor, offset, factor, offset, factor, offset,
			factor, offset, factor, offset, factor, offset).
		Joins("JOIN products p ON p.id = v.product_id").
		Joins("JOIN product_categories pc ON pc.product_id = p.id AND pc.category_id = ?", categoryID).
		Where("v.attribute_id = ? AND p.active = ?", attributeID, true).
		Scan(&row).Error; err != nil {
		return nil, nil, err
	}
	return row.Min, row.Max, nil
}

func (r *ProductRepo) TextCounts(ctx context.Context, categoryID, attributeID uuid.UUID, limit int) ([]domain.TextCount, error) {
	var list []domain.TextCount
	if err := r.db.WithContext(ctx).
		Table("free_form_values v").
		Select("v.value_text AS value, COUNT(*) AS count").
		Joins("JOIN products p ON p.id = v.product_id").
		Joins("JOIN product_categories pc ON pc.product_id = p.id AND pc.category_id = ?", categoryID).
		Where("v.attribute_id = ? AND p.active = ? AND v.value_text IS NOT NULL AND v.value_text <> ''", attributeID, true).
		Group("v.value_text").
		Order("count DESC, value ASC").
		Limit(limit).
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
