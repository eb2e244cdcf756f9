package main

import (
	"time"

	"github.com/inkfolio-shop/internal/config"
	"github.com/inkfolio-shop/internal/constants"
	"github.com/inkfolio-shop/internal/logger"
	"github.com/inkfolio-shop/internal/models"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Seeds a small demo catalog plus the characters and comics collections.
// Safe to re-run; existing slugs are left untouched.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("failed to migrate database: %v", err)
	}

	categories := []models.Category{
		{Slug: "prints", Name: "Art Prints", Description: "Signed giclée prints", SortOrder: 30},
		{Slug: "originals", Name: "Original Art", Description: "One-of-a-kind pieces", SortOrder: 20},
		{Slug: "merch", Name: "Merch", Description: "Stickers, pins and more", SortOrder: 10},
	}
	categoryIDs := map[string]uint{}
	for i := range categories {
		cat := categories[i]
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("category already exists: %s", cat.Slug)
			categoryIDs[cat.Slug] = existing.ID
			continue
		}
		if err := models.DB.Create(&cat).Error; err != nil {
			stdLog.Printf("failed to create category %s: %v", cat.Slug, err)
			continue
		}
		stdLog.Printf("created category: %s", cat.Slug)
		categoryIDs[cat.Slug] = cat.ID
	}

	products := []models.Product{
		{
			CategoryID: categoryIDs["prints"],
			Slug:       "wanderer-print",
			Title:      "The Wanderer",
			Summary:    "A4/A3 giclée print of the original watercolor",
			BasePrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(25)),
			Currency:   "USD",
			SKU:        "PRT-WANDERER",
			Status:     constants.ProductStatusPublished,
			SortOrder:  20,
			Variants: []models.ProductVariant{
				{Name: "A4", PriceAdjustment: models.NewMoneyFromDecimal(decimal.Zero), Stock: 25, SKU: "PRT-WANDERER-A4", IsActive: true},
				{Name: "A3", PriceAdjustment: models.NewMoneyFromDecimal(decimal.NewFromInt(10)), Stock: 10, SKU: "PRT-WANDERER-A3", IsActive: true},
			},
			Images: []models.ProductImage{
				{Path: "/uploads/product/wanderer-front.jpg", Alt: "The Wanderer, full view", Position: 1},
			},
		},
		{
			CategoryID: categoryIDs["originals"],
			Slug:       "tidepool-original",
			Title:      "Tidepool (Original)",
			Summary:    "Original ink and watercolor, 30x40cm, framed",
			BasePrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(420)),
			Currency:   "USD",
			SKU:        "ORG-TIDEPOOL",
			Status:     constants.ProductStatusPublished,
			SortOrder:  10,
		},
		{
			CategoryID: categoryIDs["merch"],
			Slug:       "inkblot-sticker-pack",
			Title:      "Inkblot Sticker Pack",
			Summary:    "Six vinyl stickers",
			BasePrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(8)),
			Currency:   "USD",
			SKU:        "MRC-STICKERS",
			Status:     constants.ProductStatusDraft,
		},
	}
	for i := range products {
		product := products[i]
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("product already exists: %s", product.Slug)
			continue
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("failed to create product %s: %v", product.Slug, err)
			continue
		}
		stdLog.Printf("created product: %s", product.Slug)
	}

	characters := []models.Character{
		{
			Slug:        "marlow",
			Name:        "Marlow",
			Bio:         "A harbor cat with an unreasonable fondness for maps.",
			Portrait:    "/uploads/character/marlow.png",
			Gallery:     models.StringArray{"/uploads/character/marlow-1.png", "/uploads/character/marlow-2.png"},
			SortOrder:   20,
			IsPublished: true,
		},
		{
			Slug:        "petra",
			Name:        "Petra",
			Bio:         "Lighthouse keeper, collector of storm glass.",
			Portrait:    "/uploads/character/petra.png",
			SortOrder:   10,
			IsPublished: true,
		},
	}
	for i := range characters {
		character := characters[i]
		var existing models.Character
		if err := models.DB.Where("slug = ?", character.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("character already exists: %s", character.Slug)
			continue
		}
		if err := models.DB.Create(&character).Error; err != nil {
			stdLog.Printf("failed to create character %s: %v", character.Slug, err)
			continue
		}
		stdLog.Printf("created character: %s", character.Slug)
	}

	firstIssue := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	comics := []models.Comic{
		{
			Slug:        "harbor-lights-1",
			Title:       "Harbor Lights #1",
			Description: "Marlow finds a map he should not have.",
			Cover:       "/uploads/comic/harbor-lights-1-cover.jpg",
			Pages: models.StringArray{
				"/uploads/comic/harbor-lights-1-p01.jpg",
				"/uploads/comic/harbor-lights-1-p02.jpg",
				"/uploads/comic/harbor-lights-1-p03.jpg",
			},
			PublishedAt: &firstIssue,
			SortOrder:   10,
			IsPublished: true,
		},
	}
	for i := range comics {
		comic := comics[i]
		var existing models.Comic
		if err := models.DB.Where("slug = ?", comic.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("comic already exists: %s", comic.Slug)
			continue
		}
		if err := models.DB.Create(&comic).Error; err != nil {
			stdLog.Printf("failed to create comic %s: %v", comic.Slug, err)
			continue
		}
		stdLog.Printf("created comic: %s", comic.Slug)
	}

	stdLog.Printf("seed finished")
}
