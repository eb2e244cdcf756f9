package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog product.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CategoryID  uint           `gorm:"index" json:"category_id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Summary     string         `gorm:"type:varchar(500)" json:"summary"`
	Description string         `gorm:"type:text" json:"description"`
	BasePrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"base_price"`
	Currency    string         `gorm:"type:varchar(3);not null" json:"currency"`
	SKU         string         `gorm:"type:varchar(64)" json:"sku"`
	GTIN        string         `gorm:"type:varchar(14)" json:"gtin"`
	Status      string         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"` // draft / published / archived
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID" json:"images,omitempty"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// ProductVariant is a purchasable variation of a product.
// Stock is tracked here only; the effective unit price is
// base_price + price_adjustment.
type ProductVariant struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	ProductID       uint           `gorm:"not null;index" json:"product_id"`
	Name            string         `gorm:"type:varchar(120);not null" json:"name"`
	Attributes      JSON           `gorm:"type:json" json:"attributes"` // e.g. {"size":"A3"}
	PriceAdjustment Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_adjustment"`
	Stock           int            `gorm:"not null;default:0" json:"stock"`
	SKU             string         `gorm:"type:varchar(64)" json:"sku"`
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (ProductVariant) TableName() string {
	return "product_variants"
}

// ProductImage is an ordered product image.
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Path      string    `gorm:"type:varchar(500);not null" json:"path"`
	Alt       string    `gorm:"type:varchar(200)" json:"alt"`
	Position  int       `gorm:"default:0;index" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (ProductImage) TableName() string {
	return "product_images"
}
