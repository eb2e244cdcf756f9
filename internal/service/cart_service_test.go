package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/inkfolio-shop/internal/config"
	"github.com/inkfolio-shop/internal/constants"
	"github.com/inkfolio-shop/internal/models"
	"github.com/inkfolio-shop/internal/queue"
	"github.com/inkfolio-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type shopTestEnv struct {
	db           *gorm.DB
	productRepo  *repository.GormProductRepository
	cartRepo     *repository.GormCartRepository
	orderRepo    *repository.GormOrderRepository
	counterRepo  *repository.GormCounterRepository
	notifyRepo   *repository.GormNotificationRepository
	cartSvc      *CartService
	notification *NotificationService
}

func setupShopTest(t *testing.T, shopCfg *config.ShopConfig) *shopTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.ProductVariant{}, &models.ProductImage{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.Counter{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	if shopCfg == nil {
		shopCfg = &config.ShopConfig{Currency: "USD", CartTTLMinutes: 60}
	}

	env := &shopTestEnv{
		db:          db,
		productRepo: repository.NewProductRepository(db),
		cartRepo:    repository.NewCartRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		counterRepo: repository.NewCounterRepository(db),
		notifyRepo:  repository.NewNotificationRepository(db),
	}
	env.cartSvc = NewCartService(env.cartRepo, env.productRepo, queueClient, shopCfg)
	env.notification = NewNotificationService(env.notifyRepo, queueClient)
	return env
}

func (env *shopTestEnv) createProduct(t *testing.T, slug string, price int64) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:      slug,
		Title:     "Print " + slug,
		BasePrice: models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Currency:  "USD",
		Status:    constants.ProductStatusPublished,
	}
	if err := env.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (env *shopTestEnv) createVariant(t *testing.T, productID uint, name string, adjustment int64, stock int) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ProductID:       productID,
		Name:            name,
		PriceAdjustment: models.NewMoneyFromDecimal(decimal.NewFromInt(adjustment)),
		Stock:           stock,
		IsActive:        true,
	}
	if err := env.productRepo.CreateVariant(variant); err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

func TestAddItemMergesSameProductVariantPair(t *testing.T) {
	env := setupShopTest(t, nil)
	product := env.createProduct(t, "merge-print", 20)
	variant := env.createVariant(t, product.ID, "A4", 5, 10)

	view, err := env.cartSvc.AddItem("sess-1", AddCartItemInput{ProductID: product.ID, VariantID: variant.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if len(view.Cart.Items) != 1 {
		t.Fatalf("cart lines want 1 got %d", len(view.Cart.Items))
	}

	view, err = env.cartSvc.AddItem("sess-1", AddCartItemInput{ProductID: product.ID, VariantID: variant.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("add item again failed: %v", err)
	}
	if len(view.Cart.Items) != 1 {
		t.Fatalf("merged cart lines want 1 got %d", len(view.Cart.Items))
	}
	if view.Cart.Items[0].Quantity != 5 {
		t.Fatalf("merged quantity want 5 got %d", view.Cart.Items[0].Quantity)
	}
}

func TestAddItemRejectsExcessQuantity(t *testing.T) {
	env := setupShopTest(t, nil)
	product := env.createProduct(t, "scarce-print", 20)
	variant := env.createVariant(t, product.ID, "A3", 0, 2)

	if _, err := env.cartSvc.AddItem("sess-2", AddCartItemInput{ProductID: product.ID, VariantID: variant.ID, Quantity: 3}); err != ErrInsufficientStock {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}
	if _, err := env.cartSvc.AddItem("sess-2", AddCartItemInput{ProductID: product.ID, Quantity: 0}); err != ErrInvalidQuantity {
		t.Fatalf("want ErrInvalidQuantity got %v", err)
	}
}

func TestTotalsFollowCurrentCatalogPrices(t *testing.T) {
	env := setupShopTest(t, nil)
	product := env.createProduct(t, "repriced-print", 10)

	view, err := env.cartSvc.AddItem("sess-3", AddCartItemInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if view.Totals.Subtotal.String() != "20.00" {
		t.Fatalf("subtotal want 20.00 got %s", view.Totals.Subtotal.String())
	}
	snapshot := view.Cart.Items[0].PriceAtTime.String()

	product.BasePrice = models.NewMoneyFromDecimal(decimal.NewFromInt(15))
	if err := env.productRepo.Update(product); err != nil {
		t.Fatalf("reprice failed: %v", err)
	}

	view, err = env.cartSvc.Get("sess-3")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if view.Totals.Subtotal.String() != "30.00" {
		t.Fatalf("repriced subtotal want 30.00 got %s", view.Totals.Subtotal.String())
	}
	if view.Cart.Items[0].PriceAtTime.String() != snapshot {
		t.Fatalf("price snapshot should not move, was %s now %s", snapshot, view.Cart.Items[0].PriceAtTime.String())
	}
}

func TestTotalsApplyTaxAndDiscountFloor(t *testing.T) {
	env := setupShopTest(t, &config.ShopConfig{Currency: "USD", TaxRate: 0.10, CartTTLMinutes: 60})
	product := env.createProduct(t, "taxed-print", 100)

	view, err := env.cartSvc.AddItem("sess-4", AddCartItemInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if view.Totals.TaxAmount.String() != "10.00" {
		t.Fatalf("tax want 10.00 got %s", view.Totals.TaxAmount.String())
	}
	if view.Totals.Total.String() != "110.00" {
		t.Fatalf("total want 110.00 got %s", view.Totals.Total.String())
	}

	// A discount larger than the cart never drives the total below zero.
	view, err = env.cartSvc.ApplyDiscount("sess-4", ApplyDiscountInput{
		Code:   "EVERYTHING-FREE",
		Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
	})
	if err != nil {
		t.Fatalf("apply discount failed: %v", err)
	}
	if view.Totals.Total.String() != "0.00" {
		t.Fatalf("floored total want 0.00 got %s", view.Totals.Total.String())
	}
}

func TestApplyAndRemoveDiscount(t *testing.T) {
	env := setupShopTest(t, nil)
	product := env.createProduct(t, "discounted-print", 40)

	if _, err := env.cartSvc.AddItem("sess-disc", AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	view, err := env.cartSvc.ApplyDiscount("sess-disc", ApplyDiscountInput{
		Code:   "INKTOBER10",
		Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	})
	if err != nil {
		t.Fatalf("apply discount failed: %v", err)
	}
	if view.Cart.DiscountCode != "INKTOBER10" {
		t.Fatalf("discount code want INKTOBER10 got %q", view.Cart.DiscountCode)
	}
	if view.Totals.DiscountAmount.String() != "10.00" {
		t.Fatalf("discount want 10.00 got %s", view.Totals.DiscountAmount.String())
	}
	if view.Totals.Total.String() != "30.00" {
		t.Fatalf("discounted total want 30.00 got %s", view.Totals.Total.String())
	}

	view, err = env.cartSvc.RemoveDiscount("sess-disc")
	if err != nil {
		t.Fatalf("remove discount failed: %v", err)
	}
	if view.Cart.DiscountCode != "" {
		t.Fatalf("discount code should be cleared, got %q", view.Cart.DiscountCode)
	}
	if view.Totals.Total.String() != "40.00" {
		t.Fatalf("total after removal want 40.00 got %s", view.Totals.Total.String())
	}
}

func TestApplyDiscountValidation(t *testing.T) {
	env := setupShopTest(t, nil)
	product := env.createProduct(t, "guarded-print", 40)

	if _, err := env.cartSvc.AddItem("sess-guard", AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	negative := models.NewMoneyFromDecimal(decimal.NewFromInt(-5))
	if _, err := env.cartSvc.ApplyDiscount("sess-guard", ApplyDiscountInput{Code: "NEG", Amount: negative}); err != ErrInvalidDiscount {
		t.Fatalf("negative amount want ErrInvalidDiscount got %v", err)
	}
	if _, err := env.cartSvc.ApplyDiscount("sess-guard", ApplyDiscountInput{Code: "  "}); err != ErrInvalidDiscount {
		t.Fatalf("blank code want ErrInvalidDiscount got %v", err)
	}
	ten := models.NewMoneyFromDecimal(decimal.NewFromInt(10))
	if _, err := env.cartSvc.ApplyDiscount("sess-nobody", ApplyDiscountInput{Code: "TEN", Amount: ten}); err != ErrCartNotFound {
		t.Fatalf("missing cart want ErrCartNotFound got %v", err)
	}
	if _, err := env.cartSvc.RemoveDiscount("sess-nobody"); err != ErrCartNotFound {
		t.Fatalf("missing cart want ErrCartNotFound got %v", err)
	}
}

func TestUpdateItemQuantityZeroRemovesLine(t *testing.T) {
	env := setupShopTest(t, nil)
	product := env.createProduct(t, "removable-print", 12)

	view, err := env.cartSvc.AddItem("sess-5", AddCartItemInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	itemID := view.Cart.Items[0].ID

	view, err = env.cartSvc.UpdateItemQuantity("sess-5", itemID, 0)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if len(view.Cart.Items) != 0 {
		t.Fatalf("cart should be empty, got %d lines", len(view.Cart.Items))
	}
}

func TestRemovedLineCanBeAddedBack(t *testing.T) {
	env := setupShopTest(t, nil)
	product := env.createProduct(t, "returning-print", 18)
	variant := env.createVariant(t, product.ID, "A4", 0, 5)

	view, err := env.cartSvc.AddItem("sess-readd", AddCartItemInput{ProductID: product.ID, VariantID: variant.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := env.cartSvc.RemoveItem("sess-readd", view.Cart.Items[0].ID); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}

	// The (cart, product, variant) slot must be free again after removal.
	view, err = env.cartSvc.AddItem("sess-readd", AddCartItemInput{ProductID: product.ID, VariantID: variant.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("re-add after removal failed: %v", err)
	}
	if len(view.Cart.Items) != 1 || view.Cart.Items[0].Quantity != 1 {
		t.Fatalf("re-added line want qty 1, got %+v", view.Cart.Items)
	}
}

func TestClearedCartAcceptsSameLineAgain(t *testing.T) {
	env := setupShopTest(t, nil)
	product := env.createProduct(t, "cycled-print", 18)

	if _, err := env.cartSvc.AddItem("sess-cycle", AddCartItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := env.cartSvc.Clear("sess-cycle"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	view, err := env.cartSvc.AddItem("sess-cycle", AddCartItemInput{ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("add after clear failed: %v", err)
	}
	if len(view.Cart.Items) != 1 || view.Cart.Items[0].Quantity != 3 {
		t.Fatalf("line after clear want qty 3, got %+v", view.Cart.Items)
	}
}

func TestExpiredCartIsReplacedOnNextAdd(t *testing.T) {
	env := setupShopTest(t, nil)
	product := env.createProduct(t, "stale-print", 18)

	view, err := env.cartSvc.AddItem("sess-stale", AddCartItemInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	staleID := view.Cart.ID
	if err := env.cartRepo.Touch(staleID, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("backdate expiry failed: %v", err)
	}

	// The lazy expiry drops the old cart; the session token must be free
	// for the replacement row.
	view, err = env.cartSvc.AddItem("sess-stale", AddCartItemInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add after expiry failed: %v", err)
	}
	if view.Cart.ID == staleID {
		t.Fatalf("expired cart should have been replaced, still id %d", staleID)
	}
	if len(view.Cart.Items) != 1 || view.Cart.Items[0].Quantity != 2 {
		t.Fatalf("fresh cart want one line qty 2, got %+v", view.Cart.Items)
	}
}

func TestGetUnknownSessionYieldsEmptyCart(t *testing.T) {
	env := setupShopTest(t, nil)

	view, err := env.cartSvc.Get("sess-missing")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Cart.Items) != 0 {
		t.Fatalf("empty view expected")
	}
	if view.Totals.Total.String() != "0.00" {
		t.Fatalf("empty total want 0.00 got %s", view.Totals.Total.String())
	}
}

func TestUnpublishedProductDropsOutOfTotals(t *testing.T) {
	env := setupShopTest(t, nil)
	product := env.createProduct(t, "pulled-print", 25)

	if _, err := env.cartSvc.AddItem("sess-6", AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	product.Status = constants.ProductStatusArchived
	if err := env.productRepo.Update(product); err != nil {
		t.Fatalf("archive product failed: %v", err)
	}

	view, err := env.cartSvc.Get("sess-6")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if view.Totals.Subtotal.String() != "0.00" {
		t.Fatalf("archived product should not be priced, got %s", view.Totals.Subtotal.String())
	}
}
