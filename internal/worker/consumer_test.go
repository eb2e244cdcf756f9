package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/inkfolio-shop/internal/config"
	"github.com/inkfolio-shop/internal/models"
	"github.com/inkfolio-shop/internal/provider"
	"github.com/inkfolio-shop/internal/queue"
	"github.com/inkfolio-shop/internal/repository"
	"github.com/inkfolio-shop/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.Notification{},
		&models.Cart{}, &models.CartItem{},
		&models.Category{}, &models.Product{}, &models.ProductVariant{}, &models.ProductImage{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}

	notifyRepo := repository.NewNotificationRepository(db)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)

	container := &provider.Container{
		NotificationRepo:    notifyRepo,
		CartRepo:            cartRepo,
		ProductRepo:         productRepo,
		NotificationService: service.NewNotificationService(notifyRepo, queueClient),
		CartService:         service.NewCartService(cartRepo, productRepo, queueClient, &config.ShopConfig{Currency: "USD", CartTTLMinutes: 60}),
	}
	return NewConsumer(container), db
}

func TestHandleNotificationDispatchPersists(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	payload, _ := json.Marshal(queue.NotificationDispatchPayload{
		Type:    "order_created",
		Title:   "New order",
		Message: "ORD-00000001 was placed",
	})
	task := asynq.NewTask(queue.TaskNotificationDispatch, payload)
	if err := consumer.handleNotificationDispatch(context.Background(), task); err != nil {
		t.Fatalf("handle notification failed: %v", err)
	}

	notifications, total, err := consumer.NotificationService.List(repository.NotificationListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list notifications failed: %v", err)
	}
	if total != 1 || notifications[0].Title != "New order" {
		t.Fatalf("notification not persisted, total=%d", total)
	}
}

func TestHandleNotificationDispatchSkipsEmptyType(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	payload, _ := json.Marshal(queue.NotificationDispatchPayload{Title: "no type"})
	task := asynq.NewTask(queue.TaskNotificationDispatch, payload)
	if err := consumer.handleNotificationDispatch(context.Background(), task); err != nil {
		t.Fatalf("handle notification failed: %v", err)
	}
	_, total, err := consumer.NotificationService.List(repository.NotificationListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list notifications failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("typeless payload should not persist, total=%d", total)
	}
}

func TestHandleCartExpireDropsOverdueCart(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	cart := &models.Cart{SessionToken: "sess-stale", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := db.Create(cart).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	payload, _ := json.Marshal(queue.CartExpirePayload{CartID: cart.ID})
	task := asynq.NewTask(queue.TaskCartExpire, payload)
	if err := consumer.handleCartExpire(context.Background(), task); err != nil {
		t.Fatalf("handle cart expire failed: %v", err)
	}

	got, err := consumer.CartRepo.GetByID(cart.ID, false)
	if err != nil {
		t.Fatalf("reload cart failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expired cart should be gone")
	}
}

func TestHandleCartExpireLeavesFreshCart(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	cart := &models.Cart{SessionToken: "sess-fresh", ExpiresAt: time.Now().Add(time.Hour)}
	if err := db.Create(cart).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	payload, _ := json.Marshal(queue.CartExpirePayload{CartID: cart.ID})
	task := asynq.NewTask(queue.TaskCartExpire, payload)
	if err := consumer.handleCartExpire(context.Background(), task); err != nil {
		t.Fatalf("handle cart expire failed: %v", err)
	}

	got, err := consumer.CartRepo.GetByID(cart.ID, false)
	if err != nil || got == nil {
		t.Fatalf("fresh cart should survive, err=%v", err)
	}
}
