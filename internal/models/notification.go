package models

import "time"

// Notification is a fire-and-forget audit record of a domain event. It has
// no foreign key back to the order it describes; the order id/number live in
// the metadata blob.
type Notification struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	Type      string     `gorm:"type:varchar(40);not null;index" json:"type"`
	Title     string     `gorm:"type:varchar(200);not null" json:"title"`
	Message   string     `gorm:"type:text" json:"message"`
	Metadata  JSON       `gorm:"type:json" json:"metadata"`
	IsRead    bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (Notification) TableName() string {
	return "notifications"
}
