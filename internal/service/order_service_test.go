package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/inkfolio-shop/internal/constants"
	"github.com/inkfolio-shop/internal/models"
	"github.com/inkfolio-shop/internal/repository"

	"github.com/shopspring/decimal"
)

func newOrderService(env *shopTestEnv) *OrderService {
	return NewOrderService(env.orderRepo, env.cartRepo, env.productRepo, env.counterRepo, env.cartSvc, env.notification, nil)
}

func TestCheckoutEmptyCartFails(t *testing.T) {
	env := setupShopTest(t, nil)
	orderSvc := newOrderService(env)

	_, err := orderSvc.CreateOrderFromCart(context.Background(), "sess-empty", CheckoutInput{
		CustomerEmail: "buyer@example.com",
		CustomerName:  "Buyer",
	})
	if err != ErrEmptyCart {
		t.Fatalf("want ErrEmptyCart got %v", err)
	}
}

func TestCheckoutCreatesSequencedOrderAndClearsCart(t *testing.T) {
	env := setupShopTest(t, nil)
	orderSvc := newOrderService(env)
	product := env.createProduct(t, "ordered-print", 30)
	variant := env.createVariant(t, product.ID, "A2", 10, 5)

	if _, err := env.cartSvc.AddItem("sess-buy", AddCartItemInput{ProductID: product.ID, VariantID: variant.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	result, err := orderSvc.CreateOrderFromCart(context.Background(), "sess-buy", CheckoutInput{
		CustomerEmail: "buyer@example.com",
		CustomerName:  "Buyer",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	order := result.Order
	if order.OrderNumber != "ORD-00000001" {
		t.Fatalf("order number want ORD-00000001 got %s", order.OrderNumber)
	}
	if order.TotalAmount.String() != "80.00" {
		t.Fatalf("total want 80.00 got %s", order.TotalAmount.String())
	}
	if len(order.Items) != 1 {
		t.Fatalf("order items want 1 got %d", len(order.Items))
	}
	if order.Items[0].UnitPrice.String() != "40.00" {
		t.Fatalf("unit price want 40.00 got %s", order.Items[0].UnitPrice.String())
	}

	// nil provider settles immediately with a synthetic transaction
	if order.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("payment status want paid got %s", order.PaymentStatus)
	}
	if order.TransactionID != "MOCK-ORD-00000001" {
		t.Fatalf("transaction id want MOCK-ORD-00000001 got %s", order.TransactionID)
	}

	// stock decremented
	got, err := env.productRepo.GetVariant(variant.ID)
	if err != nil || got == nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if got.Stock != 3 {
		t.Fatalf("stock want 3 got %d", got.Stock)
	}

	// cart gone
	view, err := env.cartSvc.Get("sess-buy")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Cart.Items) != 0 {
		t.Fatalf("cart should be cleared after checkout")
	}

	// sequence advances
	if _, err := env.cartSvc.AddItem("sess-buy2", AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	second, err := orderSvc.CreateOrderFromCart(context.Background(), "sess-buy2", CheckoutInput{
		CustomerEmail: "other@example.com",
		CustomerName:  "Other",
	})
	if err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}
	if second.Order.OrderNumber != "ORD-00000002" {
		t.Fatalf("second order number want ORD-00000002 got %s", second.Order.OrderNumber)
	}
}

func TestSameSessionCanShopAgainAfterCheckout(t *testing.T) {
	env := setupShopTest(t, nil)
	orderSvc := newOrderService(env)
	product := env.createProduct(t, "repeat-print", 15)

	if _, err := env.cartSvc.AddItem("sess-repeat", AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	first, err := orderSvc.CreateOrderFromCart(context.Background(), "sess-repeat", CheckoutInput{
		CustomerEmail: "repeat@example.com",
		CustomerName:  "Repeat",
	})
	if err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}

	// Checkout deletes the cart outright, so the same session token can
	// open a fresh cart and buy again.
	if _, err := env.cartSvc.AddItem("sess-repeat", AddCartItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add after checkout failed: %v", err)
	}
	second, err := orderSvc.CreateOrderFromCart(context.Background(), "sess-repeat", CheckoutInput{
		CustomerEmail: "repeat@example.com",
		CustomerName:  "Repeat",
	})
	if err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}
	if second.Order.ID == first.Order.ID {
		t.Fatalf("second checkout should create a new order")
	}
	if second.Order.TotalAmount.String() != "30.00" {
		t.Fatalf("second order total want 30.00 got %s", second.Order.TotalAmount.String())
	}
}

func TestCheckoutFailsWhenStockRanOut(t *testing.T) {
	env := setupShopTest(t, nil)
	orderSvc := newOrderService(env)
	product := env.createProduct(t, "contested-print", 30)
	variant := env.createVariant(t, product.ID, "A1", 0, 2)

	if _, err := env.cartSvc.AddItem("sess-late", AddCartItemInput{ProductID: product.ID, VariantID: variant.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	// Someone else takes the stock before checkout.
	if affected, err := env.productRepo.AdjustVariantStock(variant.ID, -1); err != nil || affected != 1 {
		t.Fatalf("drain stock failed: affected=%d err=%v", affected, err)
	}

	_, err := orderSvc.CreateOrderFromCart(context.Background(), "sess-late", CheckoutInput{
		CustomerEmail: "late@example.com",
		CustomerName:  "Late",
	})
	if err != ErrInsufficientStock {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}

	// The transaction rolled back: cart still intact, stock untouched.
	view, err := env.cartSvc.Get("sess-late")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Cart.Items) != 1 {
		t.Fatalf("cart should survive failed checkout")
	}
	got, _ := env.productRepo.GetVariant(variant.ID)
	if got.Stock != 1 {
		t.Fatalf("stock want 1 got %d", got.Stock)
	}
}

func TestOrderLinesKeepSnapshotAfterReprice(t *testing.T) {
	env := setupShopTest(t, nil)
	orderSvc := newOrderService(env)
	product := env.createProduct(t, "frozen-print", 20)

	if _, err := env.cartSvc.AddItem("sess-freeze", AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	result, err := orderSvc.CreateOrderFromCart(context.Background(), "sess-freeze", CheckoutInput{
		CustomerEmail: "freeze@example.com",
		CustomerName:  "Freeze",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	product.BasePrice = models.NewMoneyFromDecimal(decimal.NewFromInt(75))
	if err := env.productRepo.Update(product); err != nil {
		t.Fatalf("reprice failed: %v", err)
	}

	order, err := orderSvc.Get(result.Order.ID, false)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if order.Items[0].UnitPrice.String() != "20.00" {
		t.Fatalf("order line should keep its snapshot, got %s", order.Items[0].UnitPrice.String())
	}
}

func TestCancelAndRestoreRoundTripsStock(t *testing.T) {
	env := setupShopTest(t, nil)
	orderSvc := newOrderService(env)
	product := env.createProduct(t, "returnable-print", 30)
	variant := env.createVariant(t, product.ID, "A5", 0, 4)

	if _, err := env.cartSvc.AddItem("sess-return", AddCartItemInput{ProductID: product.ID, VariantID: variant.ID, Quantity: 3}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	result, err := orderSvc.CreateOrderFromCart(context.Background(), "sess-return", CheckoutInput{
		CustomerEmail: "return@example.com",
		CustomerName:  "Return",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	got, _ := env.productRepo.GetVariant(variant.ID)
	if got.Stock != 1 {
		t.Fatalf("stock after checkout want 1 got %d", got.Stock)
	}

	if err := orderSvc.Cancel(result.Order.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	got, _ = env.productRepo.GetVariant(variant.ID)
	if got.Stock != 4 {
		t.Fatalf("stock after cancel want 4 got %d", got.Stock)
	}
	if _, err := orderSvc.Get(result.Order.ID, false); err != ErrOrderNotFound {
		t.Fatalf("cancelled order should be hidden, got %v", err)
	}

	restored, err := orderSvc.Restore(result.Order.ID)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored.FulfillmentStatus != constants.FulfillmentStatusUnfulfilled {
		t.Fatalf("restored fulfillment want unfulfilled got %s", restored.FulfillmentStatus)
	}
	got, _ = env.productRepo.GetVariant(variant.ID)
	if got.Stock != 1 {
		t.Fatalf("stock after restore want 1 got %d", got.Stock)
	}
}

func TestGetByNumberRequiresMatchingEmail(t *testing.T) {
	env := setupShopTest(t, nil)
	orderSvc := newOrderService(env)
	product := env.createProduct(t, "private-print", 30)

	if _, err := env.cartSvc.AddItem("sess-priv", AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	result, err := orderSvc.CreateOrderFromCart(context.Background(), "sess-priv", CheckoutInput{
		CustomerEmail: "owner@example.com",
		CustomerName:  "Owner",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if _, err := orderSvc.GetByNumber(result.Order.OrderNumber, "OWNER@example.com"); err != nil {
		t.Fatalf("case-insensitive email match should succeed: %v", err)
	}
	if _, err := orderSvc.GetByNumber(result.Order.OrderNumber, "stranger@example.com"); err != ErrOrderNotFound {
		t.Fatalf("mismatched email should look like a missing order, got %v", err)
	}
}

func TestCheckoutEmitsNotifications(t *testing.T) {
	env := setupShopTest(t, nil)
	orderSvc := newOrderService(env)
	product := env.createProduct(t, "notified-print", 30)

	if _, err := env.cartSvc.AddItem("sess-notify", AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := orderSvc.CreateOrderFromCart(context.Background(), "sess-notify", CheckoutInput{
		CustomerEmail: "notify@example.com",
		CustomerName:  "Notify",
	}); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	notifications, total, err := env.notification.List(repository.NotificationListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list notifications failed: %v", err)
	}
	if total < 2 {
		t.Fatalf("want order_created and order_paid notifications, got %d", total)
	}
	types := make([]string, 0, len(notifications))
	for _, n := range notifications {
		types = append(types, n.Type)
	}
	joined := strings.Join(types, ",")
	if !strings.Contains(joined, constants.NotificationTypeOrderCreated) || !strings.Contains(joined, constants.NotificationTypeOrderPaid) {
		t.Fatalf("unexpected notification types: %s", joined)
	}
}

func TestUpdateStatusDirectTransition(t *testing.T) {
	env := setupShopTest(t, nil)
	orderSvc := newOrderService(env)
	product := env.createProduct(t, "override-print", 30)

	if _, err := env.cartSvc.AddItem("sess-override", AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	result, err := orderSvc.CreateOrderFromCart(context.Background(), "sess-override", CheckoutInput{
		CustomerEmail: "override@example.com",
		CustomerName:  "Override",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// No guard: a paid order can be pushed straight to refunded+fulfilled.
	order, err := orderSvc.UpdateStatus(result.Order.ID, constants.PaymentStatusRefunded, constants.FulfillmentStatusFulfilled)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if order.PaymentStatus != constants.PaymentStatusRefunded {
		t.Fatalf("payment status want refunded got %s", order.PaymentStatus)
	}
	if order.FulfillmentStatus != constants.FulfillmentStatusFulfilled {
		t.Fatalf("fulfillment status want fulfilled got %s", order.FulfillmentStatus)
	}

	reloaded, err := orderSvc.Get(order.ID, false)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusRefunded || reloaded.FulfillmentStatus != constants.FulfillmentStatusFulfilled {
		t.Fatalf("statuses not persisted: %s/%s", reloaded.PaymentStatus, reloaded.FulfillmentStatus)
	}

	notifications, _, err := env.notification.List(repository.NotificationListFilter{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list notifications failed: %v", err)
	}
	shipped := false
	for _, n := range notifications {
		if n.Type == constants.NotificationTypeOrderShipped {
			shipped = true
		}
	}
	if !shipped {
		t.Fatalf("fulfilled transition should emit a shipped notification")
	}

	if _, err := orderSvc.UpdateStatus(order.ID, "teleported", ""); err != ErrInvalidOrderStatus {
		t.Fatalf("unknown status should be rejected, got %v", err)
	}
}

func TestStatisticsRespectsDateRange(t *testing.T) {
	env := setupShopTest(t, nil)
	orderSvc := newOrderService(env)
	product := env.createProduct(t, "counted-print", 25)

	if _, err := env.cartSvc.AddItem("sess-stats", AddCartItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := orderSvc.CreateOrderFromCart(context.Background(), "sess-stats", CheckoutInput{
		CustomerEmail: "stats@example.com",
		CustomerName:  "Stats",
	}); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	stats, err := orderSvc.Statistics(nil, nil)
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}
	if stats.TotalOrders != 1 || stats.PaidOrders != 1 {
		t.Fatalf("want one paid order, got total=%d paid=%d", stats.TotalOrders, stats.PaidOrders)
	}
	if stats.TotalRevenue.String() != "50.00" {
		t.Fatalf("revenue want 50.00 got %s", stats.TotalRevenue.String())
	}

	future := time.Now().Add(time.Hour)
	ranged, err := orderSvc.Statistics(&future, nil)
	if err != nil {
		t.Fatalf("ranged statistics failed: %v", err)
	}
	if ranged.TotalOrders != 0 {
		t.Fatalf("future range should exclude the order, got %d", ranged.TotalOrders)
	}
}
