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

func setupOrderRepositoryTest(t *testing.T) *GormOrderRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate order tables failed: %v", err)
	}
	return NewOrderRepository(db)
}

func createTestOrder(t *testing.T, repo *GormOrderRepository, number, paymentStatus string, total int64) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:       number,
		Currency:          "USD",
		Subtotal:          models.NewMoneyFromDecimal(decimal.NewFromInt(total)),
		TotalAmount:       models.NewMoneyFromDecimal(decimal.NewFromInt(total)),
		PaymentStatus:     paymentStatus,
		FulfillmentStatus: constants.FulfillmentStatusUnfulfilled,
	}
	if err := repo.Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderStatisticsCountsAndRevenue(t *testing.T) {
	repo := setupOrderRepositoryTest(t)

	createTestOrder(t, repo, "ORD-00000001", constants.PaymentStatusPaid, 40)
	createTestOrder(t, repo, "ORD-00000002", constants.PaymentStatusPaid, 60)
	createTestOrder(t, repo, "ORD-00000003", constants.PaymentStatusPending, 15)
	cancelled := createTestOrder(t, repo, "ORD-00000004", constants.PaymentStatusPending, 10)
	if err := repo.Delete(cancelled.ID); err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}

	stats, err := repo.Statistics(nil, nil)
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}
	if stats.TotalOrders != 3 {
		t.Fatalf("total orders want 3 got %d", stats.TotalOrders)
	}
	if stats.PaidOrders != 2 {
		t.Fatalf("paid orders want 2 got %d", stats.PaidOrders)
	}
	if stats.PendingOrders != 1 {
		t.Fatalf("pending orders want 1 got %d", stats.PendingOrders)
	}
	if stats.CancelledOrders != 1 {
		t.Fatalf("cancelled orders want 1 got %d", stats.CancelledOrders)
	}
	if stats.TotalRevenue.Cmp(decimal.NewFromInt(100)) != 0 {
		t.Fatalf("revenue want 100 got %s", stats.TotalRevenue.String())
	}
}

func TestOrderCancelAndRestoreRoundTrip(t *testing.T) {
	repo := setupOrderRepositoryTest(t)
	order := createTestOrder(t, repo, "ORD-00000010", constants.PaymentStatusPending, 20)

	if err := repo.Delete(order.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	got, err := repo.GetByOrderNumber("ORD-00000010", false)
	if err != nil {
		t.Fatalf("get after cancel failed: %v", err)
	}
	if got != nil {
		t.Fatalf("cancelled order should be hidden")
	}

	if err := repo.Restore(order.ID); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	got, err = repo.GetByOrderNumber("ORD-00000010", false)
	if err != nil {
		t.Fatalf("get after restore failed: %v", err)
	}
	if got == nil {
		t.Fatalf("restored order should be visible")
	}
}
