package service

import (
	"github.com/inkfolio-shop/internal/logger"
	"github.com/inkfolio-shop/internal/models"
	"github.com/inkfolio-shop/internal/queue"
	"github.com/inkfolio-shop/internal/repository"
)

// NotificationService records domain events. When the queue is enabled the
// write happens in the worker; otherwise it is synchronous.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	queueClient      *queue.Client
}

// NewNotificationService creates a notification service.
func NewNotificationService(notificationRepo repository.NotificationRepository, queueClient *queue.Client) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		queueClient:      queueClient,
	}
}

// Notify emits a notification. Failures are logged, never propagated: a
// notification must not break the operation that triggered it.
func (s *NotificationService) Notify(eventType, title, message string, metadata map[string]interface{}) {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueNotificationDispatch(queue.NotificationDispatchPayload{
			Type:     eventType,
			Title:    title,
			Message:  message,
			Metadata: metadata,
		})
		if err == nil {
			return
		}
		logger.Warnw("notification_enqueue_failed", "type", eventType, "error", err)
	}
	if err := s.Persist(eventType, title, message, metadata); err != nil {
		logger.Errorw("notification_persist_failed", "type", eventType, "error", err)
	}
}

// Persist writes the notification record. Called directly by the worker.
func (s *NotificationService) Persist(eventType, title, message string, metadata map[string]interface{}) error {
	return s.notificationRepo.Create(&models.Notification{
		Type:     eventType,
		Title:    title,
		Message:  message,
		Metadata: models.JSON(metadata),
	})
}

// List returns notifications matching the filter.
func (s *NotificationService) List(filter repository.NotificationListFilter) ([]models.Notification, int64, error) {
	return s.notificationRepo.List(filter)
}

// Get loads one notification by id.
func (s *NotificationService) Get(id uint) (*models.Notification, error) {
	notification, err := s.notificationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(id uint) error {
	notification, err := s.notificationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if notification == nil {
		return ErrNotificationNotFound
	}
	return s.notificationRepo.MarkRead(id)
}

// MarkAllRead marks every unread notification as read.
func (s *NotificationService) MarkAllRead() (int64, error) {
	return s.notificationRepo.MarkAllRead()
}

// Delete removes a notification permanently.
func (s *NotificationService) Delete(id uint) error {
	notification, err := s.notificationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if notification == nil {
		return ErrNotificationNotFound
	}
	return s.notificationRepo.Delete(id)
}

// CountUnread counts unread notifications.
func (s *NotificationService) CountUnread() (int64, error) {
	return s.notificationRepo.CountUnread()
}
