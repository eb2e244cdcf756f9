package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/inkfolio-shop/internal/constants"
	"github.com/inkfolio-shop/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.ProductVariant{}, &models.ProductImage{}); err != nil {
		t.Fatalf("migrate product tables failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createTestProduct(t *testing.T, repo *GormProductRepository, slug, status string) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:      slug,
		Title:     "Ink Print " + slug,
		BasePrice: models.NewMoneyFromDecimal(decimal.NewFromInt(25)),
		Currency:  "USD",
		Status:    status,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestProductListOnlyPublished(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	createTestProduct(t, repo, "draft-print", constants.ProductStatusDraft)
	createTestProduct(t, repo, "live-print", constants.ProductStatusPublished)

	products, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, OnlyPublished: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(products) != 1 {
		t.Fatalf("published list want 1 got total=%d len=%d", total, len(products))
	}
	if products[0].Slug != "live-print" {
		t.Fatalf("published list slug want live-print got %s", products[0].Slug)
	}
}

func TestProductSoftDeleteAndRestore(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "restorable-print", constants.ProductStatusPublished)

	if err := repo.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	got, err := repo.GetByID(product.ID, false)
	if err != nil {
		t.Fatalf("get after delete failed: %v", err)
	}
	if got != nil {
		t.Fatalf("deleted product should not be visible")
	}

	got, err = repo.GetByID(product.ID, true)
	if err != nil {
		t.Fatalf("get with deleted failed: %v", err)
	}
	if got == nil {
		t.Fatalf("deleted product should be visible unscoped")
	}

	if err := repo.Restore(product.ID); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	got, err = repo.GetByID(product.ID, false)
	if err != nil {
		t.Fatalf("get after restore failed: %v", err)
	}
	if got == nil {
		t.Fatalf("restored product should be visible")
	}
}

func TestProductCountBySlugIncludesDeleted(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "unique-print", constants.ProductStatusPublished)
	if err := repo.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	count, err := repo.CountBySlug("unique-print", 0)
	if err != nil {
		t.Fatalf("count by slug failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("slug count want 1 got %d", count)
	}
}

func TestAdjustVariantStockGuardsNegative(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "variant-print", constants.ProductStatusPublished)

	variant := &models.ProductVariant{
		ProductID: product.ID,
		Name:      "A3",
		Stock:     2,
		IsActive:  true,
	}
	if err := repo.CreateVariant(variant); err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	affected, err := repo.AdjustVariantStock(variant.ID, -2)
	if err != nil {
		t.Fatalf("adjust stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("adjust affected want 1 got %d", affected)
	}

	affected, err = repo.AdjustVariantStock(variant.ID, -1)
	if err != nil {
		t.Fatalf("adjust below zero failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("adjust below zero affected want 0 got %d", affected)
	}

	var got models.ProductVariant
	if err := db.First(&got, variant.ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("stock want 0 got %d", got.Stock)
	}
}
