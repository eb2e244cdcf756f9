package constants

// Product status values.
const (
	ProductStatusDraft     = "draft"
	ProductStatusPublished = "published"
	ProductStatusArchived  = "archived"
)

// Order payment status values.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Order fulfillment status values.
const (
	FulfillmentStatusUnfulfilled = "unfulfilled"
	FulfillmentStatusFulfilled   = "fulfilled"
	FulfillmentStatusCancelled   = "cancelled"
)

// Payment provider names.
const (
	PaymentProviderMock   = "mock"
	PaymentProviderStripe = "stripe"
	PaymentProviderEtsy   = "etsy"
)

// Notification types emitted by domain events.
const (
	NotificationTypeOrderCreated = "order_created"
	NotificationTypeOrderPaid    = "order_paid"
	NotificationTypeOrderShipped = "order_shipped"
)

// Counter names used for sequential number generation.
const (
	CounterOrderNumber = "order_number"
)

// OrderNumberPrefix prefixes every generated order number.
const OrderNumberPrefix = "ORD-"

// Admin role names.
const (
	AdminRoleSuper = "super"
	AdminRoleStaff = "staff"
)

// Queue names.
const (
	QueueDefault = "default"
)

// Async task type names.
const (
	TaskNotificationDispatch = "notification:dispatch"
	TaskCartExpire           = "cart:expire"
)

// Session token header used by the storefront to identify a cart session.
const SessionTokenHeader = "X-Session-Token"
