package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/inkfolio-shop/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartRepositoryTest(t *testing.T) (*GormCartRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductVariant{}, &models.Cart{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate cart tables failed: %v", err)
	}
	return NewCartRepository(db), db
}

func TestCartItemLookupByCompositeKey(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)

	cart := &models.Cart{SessionToken: "sess-merge", ExpiresAt: time.Now().Add(time.Hour)}
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	item := &models.CartItem{
		CartID:      cart.ID,
		ProductID:   7,
		VariantID:   3,
		Quantity:    2,
		PriceAtTime: models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
	}
	if err := repo.CreateItem(item); err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	got, err := repo.GetItem(cart.ID, 7, 3)
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if got == nil || got.ID != item.ID {
		t.Fatalf("composite key lookup miss")
	}

	got, err = repo.GetItem(cart.ID, 7, 0)
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if got != nil {
		t.Fatalf("different variant should be a different line")
	}
}

func TestDeleteExpiredRemovesCartAndItems(t *testing.T) {
	repo, db := setupCartRepositoryTest(t)

	stale := &models.Cart{SessionToken: "sess-stale", ExpiresAt: time.Now().Add(-time.Minute)}
	fresh := &models.Cart{SessionToken: "sess-fresh", ExpiresAt: time.Now().Add(time.Hour)}
	for _, cart := range []*models.Cart{stale, fresh} {
		if err := repo.Create(cart); err != nil {
			t.Fatalf("create cart failed: %v", err)
		}
	}
	if err := repo.CreateItem(&models.CartItem{CartID: stale.ID, ProductID: 1, Quantity: 1}); err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	removed, err := repo.DeleteExpired(time.Now())
	if err != nil {
		t.Fatalf("delete expired failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed want 1 got %d", removed)
	}

	got, err := repo.GetBySessionToken("sess-stale", false)
	if err != nil {
		t.Fatalf("get stale failed: %v", err)
	}
	if got != nil {
		t.Fatalf("stale cart should be gone")
	}

	var itemCount int64
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", stale.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("stale cart items should be gone, got %d", itemCount)
	}

	got, err = repo.GetBySessionToken("sess-fresh", false)
	if err != nil {
		t.Fatalf("get fresh failed: %v", err)
	}
	if got == nil {
		t.Fatalf("fresh cart should survive")
	}
}
