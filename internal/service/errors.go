package service

import "errors"

// Sentinel errors mapped to HTTP responses by the handler layer.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")

	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrVariantNotFound  = errors.New("variant not found")
	ErrSlugTaken        = errors.New("slug already in use")
	ErrCategoryInUse    = errors.New("category still has products")

	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidDiscount   = errors.New("discount code and amount are invalid")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("unknown order status")
	ErrOrderNotPending    = errors.New("order is not awaiting payment")
	ErrOrderNotPaid       = errors.New("order is not paid")
	ErrOrderNotCancelled  = errors.New("order is not cancelled")
	ErrOrderAlreadyPaid   = errors.New("order is already paid")
	ErrRefundFailed       = errors.New("refund was refused by the provider")
	ErrWebhookUnsupported = errors.New("payment provider has no webhook")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrCharacterNotFound    = errors.New("character not found")
	ErrComicNotFound        = errors.New("comic not found")
)
