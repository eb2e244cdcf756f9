package repository

import (
	"errors"
	"time"

	"github.com/inkfolio-shop/internal/constants"
	"github.com/inkfolio-shop/internal/models"

	"gorm.io/gorm"
)

// OrderRepository is the order data access interface.
type OrderRepository interface {
	List(filter OrderListFilter) ([]models.Order, int64, error)
	GetByID(id uint, withDeleted bool) (*models.Order, error)
	GetByOrderNumber(orderNumber string, withDeleted bool) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	UpdateStatuses(id uint, fields map[string]interface{}) error
	Delete(id uint) error
	Restore(id uint) error
	Statistics(from, to *time.Time) (OrderStatistics, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// OrderStatistics aggregates order counts and revenue.
type OrderStatistics struct {
	TotalOrders     int64        `json:"total_orders"`
	PendingOrders   int64        `json:"pending_orders"`
	PaidOrders      int64        `json:"paid_orders"`
	RefundedOrders  int64        `json:"refunded_orders"`
	CancelledOrders int64        `json:"cancelled_orders"`
	TotalRevenue    models.Money `json:"total_revenue"`
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List returns orders matching the filter, newest first.
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order

	query := r.db.Model(&models.Order{})
	if filter.WithDeleted {
		query = query.Unscoped()
	}
	if filter.WithItems {
		query = query.Preload("Items")
	}
	if filter.OrderNumber != "" {
		query = query.Where("order_number = ?", filter.OrderNumber)
	}
	if filter.CustomerEmail != "" {
		query = query.Where("customer_email = ?", filter.CustomerEmail)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.FulfillmentStatus != "" {
		query = query.Where("fulfillment_status = ?", filter.FulfillmentStatus)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// GetByID loads an order with its items.
func (r *GormOrderRepository) GetByID(id uint, withDeleted bool) (*models.Order, error) {
	var order models.Order
	query := r.db
	if withDeleted {
		query = query.Unscoped()
	}
	if err := query.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNumber loads an order by its public order number.
func (r *GormOrderRepository) GetByOrderNumber(orderNumber string, withDeleted bool) (*models.Order, error) {
	var order models.Order
	query := r.db.Where("order_number = ?", orderNumber)
	if withDeleted {
		query = query.Unscoped()
	}
	if err := query.Preload("Items").First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Create inserts an order together with its items.
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// Update saves an order.
func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// UpdateStatuses updates only the given columns, skipping GORM hooks.
func (r *GormOrderRepository) UpdateStatuses(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	return r.db.Model(&models.Order{}).Where("id = ?", id).UpdateColumns(fields).Error
}

// Delete soft deletes an order, marking it cancelled.
func (r *GormOrderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}

// Restore clears the soft delete mark.
func (r *GormOrderRepository) Restore(id uint) error {
	return r.db.Unscoped().Model(&models.Order{}).Where("id = ?", id).Update("deleted_at", nil).Error
}

// Statistics aggregates counts per status plus revenue from paid orders,
// optionally restricted to a creation-date range.
func (r *GormOrderRepository) Statistics(from, to *time.Time) (OrderStatistics, error) {
	var stats OrderStatistics

	ranged := func(q *gorm.DB) *gorm.DB {
		if from != nil {
			q = q.Where("created_at >= ?", *from)
		}
		if to != nil {
			q = q.Where("created_at <= ?", *to)
		}
		return q
	}

	if err := ranged(r.db.Model(&models.Order{})).Count(&stats.TotalOrders).Error; err != nil {
		return stats, err
	}
	counts := []struct {
		status string
		dest   *int64
	}{
		{constants.PaymentStatusPending, &stats.PendingOrders},
		{constants.PaymentStatusPaid, &stats.PaidOrders},
		{constants.PaymentStatusRefunded, &stats.RefundedOrders},
	}
	for _, c := range counts {
		if err := ranged(r.db.Model(&models.Order{})).Where("payment_status = ?", c.status).Count(c.dest).Error; err != nil {
			return stats, err
		}
	}
	if err := ranged(r.db.Unscoped().Model(&models.Order{})).
		Where("deleted_at IS NOT NULL OR fulfillment_status = ?", constants.FulfillmentStatusCancelled).
		Count(&stats.CancelledOrders).Error; err != nil {
		return stats, err
	}

	var revenue struct {
		Total models.Money
	}
	err := ranged(r.db.Model(&models.Order{})).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("payment_status = ?", constants.PaymentStatusPaid).
		Scan(&revenue).Error
	if err != nil {
		return stats, err
	}
	stats.TotalRevenue = revenue.Total

	return stats, nil
}
