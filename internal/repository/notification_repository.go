package repository

import (
	"errors"
	"time"

	"github.com/inkfolio-shop/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository is the notification data access interface.
type NotificationRepository interface {
	List(filter NotificationListFilter) ([]models.Notification, int64, error)
	GetByID(id uint) (*models.Notification, error)
	Create(notification *models.Notification) error
	MarkRead(id uint) error
	MarkAllRead() (int64, error)
	Delete(id uint) error
	CountUnread() (int64, error)
	WithTx(tx *gorm.DB) NotificationRepository
}

// GormNotificationRepository is the GORM implementation.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a notification repository.
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormNotificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	if tx == nil {
		return r
	}
	return &GormNotificationRepository{db: tx}
}

// List returns notifications newest first.
func (r *GormNotificationRepository) List(filter NotificationListFilter) ([]models.Notification, int64, error) {
	var notifications []models.Notification

	query := r.db.Model(&models.Notification{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC, id DESC").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// GetByID loads a notification by id.
func (r *GormNotificationRepository) GetByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

// Create inserts a notification.
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// MarkRead marks one notification as read. Already-read rows are untouched.
func (r *GormNotificationRepository) MarkRead(id uint) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

// MarkAllRead marks every unread notification as read.
func (r *GormNotificationRepository) MarkAllRead() (int64, error) {
	now := time.Now()
	result := r.db.Model(&models.Notification{}).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

// Delete removes a notification permanently.
func (r *GormNotificationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Notification{}, id).Error
}

// CountUnread counts unread notifications.
func (r *GormNotificationRepository) CountUnread() (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}
