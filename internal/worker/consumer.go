// Package worker consumes queued background tasks: notification persistence
// and cart expiry.
package worker

import (
	"context"
	"encoding/json"

	"github.com/inkfolio-shop/internal/logger"
	"github.com/inkfolio-shop/internal/provider"
	"github.com/inkfolio-shop/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles asynchronous tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register binds task types to their handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskNotificationDispatch, c.handleNotificationDispatch)
	mux.HandleFunc(queue.TaskCartExpire, c.handleCartExpire)
}

func (c *Consumer) handleNotificationDispatch(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.NotificationDispatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_notification_unmarshal_failed", "error", err)
		return err
	}
	if payload.Type == "" {
		logger.Debugw("worker_notification_skip_empty_type")
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_notification_service_nil", "type", payload.Type)
		return nil
	}
	if err := c.NotificationService.Persist(payload.Type, payload.Title, payload.Message, payload.Metadata); err != nil {
		logger.Warnw("worker_notification_persist_failed", "type", payload.Type, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleCartExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.CartExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.CartID == 0 {
		return nil
	}
	if c.CartService == nil {
		logger.Warnw("worker_cart_expire_service_nil", "cart_id", payload.CartID)
		return nil
	}
	// Carts touched after the task was scheduled are left alone; the later
	// task scheduled by that touch will handle them.
	if err := c.CartService.ExpireCart(payload.CartID); err != nil {
		logger.Warnw("worker_cart_expire_failed", "cart_id", payload.CartID, "error", err)
		return err
	}
	return nil
}
