package models

import (
	"time"

	"gorm.io/gorm"
)

// Character is an entry in the characters content collection.
type Character struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string         `gorm:"type:varchar(120);not null" json:"name"`
	Bio         string         `gorm:"type:text" json:"bio"`
	Portrait    string         `gorm:"type:varchar(500)" json:"portrait"`
	Gallery     StringArray    `gorm:"type:json" json:"gallery"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Character) TableName() string {
	return "characters"
}
