package app

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/induparts/catalog/internal/adapters/httpserver"
	"github.com/induparts/catalog/internal/adapters/repo/postgres"
	"github.com/induparts/catalog/internal/cache"
	"github.com/induparts/catalog/internal/domain"
	"github.com/induparts/catalog/internal/usecase"
)

type App struct {
	DB       *gorm.DB
	Schemas  *usecase.SchemaUC
	Queries  *usecase.QueryUC
	Compare  *usecase.CompareUC
	Specs    *usecase.SpecsUC
	Values   *usecase.ValueUC
	Registry *usecase.RegistryUC
	Cache    *cache.SchemaCache
}

func NewApp(db *gorm.DB, schemaTTL time.Duration) (*App, error) {
	if schemaTTL <= 0 {
		schemaTTL = 30 * time.Minute
	}

	unitRepo := postgres.NewUnitRepo(db)
	attrRepo := postgres.NewAttributeRepo(db)
	valueRepo := postgres.NewValueRepo(db)
	prodRepo := postgres.NewProductRepo(db)
	schemaCache := cache.New(schemaTTL)

	app := &App{DB: db, Cache: schemaCache}
	app.Schemas = &usecase.SchemaUC{Attrs: attrRepo, Facets: prodRepo, Cache: schemaCache}
	app.Queries = &usecase.QueryUC{Attrs: attrRepo, Products: prodRepo}
	app.Compare = &usecase.CompareUC{Products: prodRepo, Values: valueRepo, Attrs: attrRepo}
	app.Specs = &usecase.SpecsUC{Products: prodRepo, Values: valueRepo, Attrs: attrRepo}
	app.Values = &usecase.ValueUC{Attrs: attrRepo, Values: valueRepo, Products: prodRepo, Cache: schemaCache}
	app.Registry = &usecase.RegistryUC{Attrs: attrRepo, Units: unitRepo, Cache: schemaCache}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Schemas, a.Queries, a.Compare, a.Specs)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Unit{}, &domain.Attribute{}, &domain.AttributeOption{},
		&domain.Category{}, &domain.CategoryAttributeBinding{},
		&domain.Product{}, &domain.ProductCategory{},
		&domain.FreeFormValue{}, &domain.OptionAssignment{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_ffv_attribute_id ON free_form_values(attribute_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_assignments_attribute ON option_assignments(attribute_id, attribute_option_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_bindings_attribute ON category_attribute_bindings(attribute_id)").Error
	_ = a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_product_primary_category ON product_categories(product_id) WHERE is_primary").Error

	return seedUnits(a.DB)
}

// seedUnits loads a starter unit table on an empty database; administrators
// extend it from there.
func seedUnits(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Unit{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	units := []domain.Unit{
		{Name: "Millimetre", Symbol: "mm", Dimension: "length", BaseSymbol: "m", SIFactor: 0.001},
		{Name: "Centimetre", Symbol: "cm", Dimension: "length", BaseSymbol: "m", SIFactor: 0.01},
		{Name: "Metre", Symbol: "m", Dimension: "length", BaseSymbol: "m", SIFactor: 1},
		{Name: "Inch", Symbol: "in", Dimension: "length", BaseSymbol: "m", SIFactor: 0.0254},
		{Name: "Gram", Symbol: "g", Dimension: "mass", BaseSymbol: "kg", SIFactor: 0.001},
		{Name: "Kilogram", Symbol: "kg", Dimension: "mass", BaseSymbol: "kg", SIFactor: 1},
		{Name: "Pascal", Symbol: "Pa", Dimension: "pressure", BaseSymbol: "Pa", SIFactor: 1},
		{Name: "Bar", Symbol: "bar", Dimension: "pressure", BaseSymbol: "Pa", SIFactor: 100000},
		{Name: "Atmosphere", Symbol: "atm", Dimension: "pressure", BaseSymbol: "Pa", SIFactor: 101325},
		{Name: "Watt", Symbol: "W", Dimension: "power", BaseSymbol: "W", SIFactor: 1},
		{Name: "Kilowatt", Symbol: "kW", Dimension: "power", BaseSymbol: "W", SIFactor: 1000},
		{Name: "Kelvin", Symbol: "K", Dimension: "temperature", BaseSymbol: "K", SIFactor: 1},
		{Name: "Celsius", Symbol: "°C", Dimension: "temperature", BaseSymbol: "K", SIFactor: 1, SIOffset: 273.15},
		{Name: "Litre", Symbol: "l", Dimension: "volume", BaseSymbol: "m³", SIFactor: 0.001},
	}
	for i := range units {
		units[i].ID = uuid.New()
	}
	return db.Create(&units).Error
}
