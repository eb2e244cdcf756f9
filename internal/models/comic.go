package models

import (
	"time"

	"gorm.io/gorm"
)

// Comic is an entry in the comics content collection.
type Comic struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Cover       string         `gorm:"type:varchar(500)" json:"cover"`
	Pages       StringArray    `gorm:"type:json" json:"pages"`
	PublishedAt *time.Time     `gorm:"index" json:"published_at"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Comic) TableName() string {
	return "comics"
}
