package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is immutable once created except for its two status fields.
// Soft delete doubles as the cancellation tombstone.
type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	OrderNumber       string         `gorm:"uniqueIndex;not null" json:"order_number"` // ORD-XXXXXXXX
	SessionToken      string         `gorm:"index" json:"-"`
	CustomerEmail     string         `gorm:"type:varchar(200);index" json:"customer_email"`
	CustomerName      string         `gorm:"type:varchar(200)" json:"customer_name"`
	ShippingAddress   string         `gorm:"type:text" json:"shipping_address"`
	Currency          string         `gorm:"type:varchar(3);not null" json:"currency"`
	Subtotal          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`
	TaxAmount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`
	DiscountCode      string         `gorm:"type:varchar(64)" json:"discount_code"`
	DiscountAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`
	TotalAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	PaymentStatus     string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`         // pending / paid / failed / refunded
	FulfillmentStatus string         `gorm:"type:varchar(20);not null;default:'unfulfilled';index" json:"fulfillment_status"` // unfulfilled / fulfilled / cancelled
	PaymentProvider   string         `gorm:"type:varchar(32)" json:"payment_provider"`
	TransactionID     string         `gorm:"type:varchar(200)" json:"transaction_id"`
	PaidAt            *time.Time     `gorm:"index" json:"paid_at"`
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a frozen copy of the purchased line, decoupled from later
// catalog edits.
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	OrderID     uint      `gorm:"index;not null" json:"order_id"`
	ProductID   uint      `gorm:"index;not null" json:"product_id"`
	VariantID   uint      `gorm:"not null;default:0" json:"variant_id"` // 0 when no variant
	ProductName string    `gorm:"type:varchar(200);not null" json:"product_name"`
	VariantName string    `gorm:"type:varchar(120)" json:"variant_name"`
	SKU         string    `gorm:"type:varchar(64)" json:"sku"`
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	TotalPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (OrderItem) TableName() string {
	return "order_items"
}

// Counter is a named sequence row incremented atomically; order numbers are
// derived from it rather than from row counts.
type Counter struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Counter) TableName() string {
	return "counters"
}
