package models

import (
	"time"
)

// Cart is a session-scoped shopping cart. It is created implicitly on the
// first add-to-cart for a session token and expires when idle. Carts are
// removed outright at checkout and on expiry, never tombstoned: the session
// token stays unique across the cart's whole lifetime, so the next
// add-to-cart for the same session must be free to insert a fresh row.
type Cart struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	SessionToken   string    `gorm:"uniqueIndex;not null" json:"session_token"`
	DiscountCode   string    `gorm:"type:varchar(64)" json:"discount_code"`
	DiscountAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`
	ExpiresAt      time.Time `gorm:"index" json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

// TableName sets the table name.
func (Cart) TableName() string {
	return "carts"
}

// CartItem is one cart line. A (cart, product, variant) pair is unique;
// adding the same pair again merges quantities. PriceAtTime is the unit
// price snapshot taken when the line was first inserted and is never
// recomputed afterwards. Like its cart, a line is deleted for real: a
// tombstone would keep occupying the (cart, product, variant) slot and block
// re-adding the same product later.
type CartItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CartID      uint      `gorm:"not null;index;uniqueIndex:idx_cart_product_variant" json:"cart_id"`
	ProductID   uint      `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"product_id"`
	VariantID   uint      `gorm:"not null;default:0;uniqueIndex:idx_cart_product_variant" json:"variant_id"` // 0 when no variant
	Quantity    int       `gorm:"not null" json:"quantity"`
	PriceAtTime Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price_at_time"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Product *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

// TableName sets the table name.
func (CartItem) TableName() string {
	return "cart_items"
}
