package queue

import (
	"encoding/json"

	"github.com/inkfolio-shop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskNotificationDispatch writes a notification record off the request path.
	TaskNotificationDispatch = constants.TaskNotificationDispatch
	// TaskCartExpire removes a cart after its idle window passes.
	TaskCartExpire = constants.TaskCartExpire
)

// NotificationDispatchPayload carries a notification to be persisted.
type NotificationDispatchPayload struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata"`
}

// CartExpirePayload names the cart to expire.
type CartExpirePayload struct {
	CartID uint `json:"cart_id"`
}

// NewNotificationDispatchTask builds a notification dispatch task.
func NewNotificationDispatchTask(payload NotificationDispatchPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationDispatch, body), nil
}

// NewCartExpireTask builds a cart expiry task.
func NewCartExpireTask(payload CartExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartExpire, body), nil
}
