package repository

import "time"

// ProductListFilter filters product listings.
type ProductListFilter struct {
	Page          int
	PageSize      int
	CategoryID    uint
	CategorySlug  string
	Search        string
	Status        string
	OnlyPublished bool
	WithCategory  bool
	WithDeleted   bool
}

// CategoryListFilter filters category listings.
type CategoryListFilter struct {
	Page        int
	PageSize    int
	Search      string
	WithDeleted bool
}

// OrderListFilter filters order listings.
type OrderListFilter struct {
	Page              int
	PageSize          int
	OrderNumber       string
	CustomerEmail     string
	PaymentStatus     string
	FulfillmentStatus string
	CreatedFrom       *time.Time
	CreatedTo         *time.Time
	WithDeleted       bool
	WithItems         bool
}

// NotificationListFilter filters notification listings.
type NotificationListFilter struct {
	Page       int
	PageSize   int
	Type       string
	UnreadOnly bool
}

// CharacterListFilter filters character listings.
type CharacterListFilter struct {
	Page          int
	PageSize      int
	Search        string
	OnlyPublished bool
	WithDeleted   bool
}

// ComicListFilter filters comic listings.
type ComicListFilter struct {
	Page          int
	PageSize      int
	Search        string
	OnlyPublished bool
	WithDeleted   bool
}
