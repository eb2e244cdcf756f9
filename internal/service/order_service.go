package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inkfolio-shop/internal/constants"
	"github.com/inkfolio-shop/internal/logger"
	"github.com/inkfolio-shop/internal/models"
	"github.com/inkfolio-shop/internal/payment"
	"github.com/inkfolio-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func intToDecimal(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}

// CheckoutInput carries the buyer details for order creation.
type CheckoutInput struct {
	CustomerEmail   string `json:"customer_email" binding:"required,email"`
	CustomerName    string `json:"customer_name" binding:"required"`
	ShippingAddress string `json:"shipping_address"`
}

// CheckoutResult is a created order plus the charge outcome.
type CheckoutResult struct {
	Order       *models.Order `json:"order"`
	RedirectURL string        `json:"redirect_url,omitempty"`
	Message     string        `json:"message,omitempty"`
}

// OrderService creates orders from carts and drives their lifecycle.
type OrderService struct {
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	counterRepo  repository.CounterRepository
	cartSvc      *CartService
	notification *NotificationService
	provider     payment.Provider
}

// NewOrderService creates an order service. The payment provider may be nil;
// charges then settle immediately with a synthetic transaction id.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	counterRepo repository.CounterRepository,
	cartSvc *CartService,
	notification *NotificationService,
	provider payment.Provider,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		counterRepo:  counterRepo,
		cartSvc:      cartSvc,
		notification: notification,
		provider:     provider,
	}
}

// CreateOrderFromCart turns the session cart into an order inside one
// transaction: number allocation, line snapshots, stock decrement, and cart
// teardown either all land or none do.
func (s *OrderService) CreateOrderFromCart(ctx context.Context, sessionToken string, input CheckoutInput) (*CheckoutResult, error) {
	cart, err := s.cartSvc.liveCart(sessionToken)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	totals, err := s.cartSvc.CalculateTotals(cart)
	if err != nil {
		return nil, err
	}
	if totals.ItemCount == 0 {
		return nil, ErrEmptyCart
	}

	var order *models.Order
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		counterRepo := s.counterRepo.WithTx(tx)

		seq, err := counterRepo.Next(constants.CounterOrderNumber)
		if err != nil {
			return err
		}
		orderNumber := fmt.Sprintf("%s%08d", constants.OrderNumberPrefix, seq)

		order = &models.Order{
			OrderNumber:       orderNumber,
			SessionToken:      strings.TrimSpace(sessionToken),
			CustomerEmail:     strings.TrimSpace(input.CustomerEmail),
			CustomerName:      strings.TrimSpace(input.CustomerName),
			ShippingAddress:   input.ShippingAddress,
			Currency:          totals.Currency,
			Subtotal:          totals.Subtotal,
			TaxAmount:         totals.TaxAmount,
			DiscountCode:      cart.DiscountCode,
			DiscountAmount:    totals.DiscountAmount,
			TotalAmount:       totals.Total,
			PaymentStatus:     constants.PaymentStatusPending,
			FulfillmentStatus: constants.FulfillmentStatusUnfulfilled,
		}

		for i := range cart.Items {
			item := &cart.Items[i]
			product, variant, err := s.cartSvc.lookupSellable(item.ProductID, item.VariantID)
			if err != nil {
				return err
			}
			if product == nil {
				continue
			}
			if item.VariantID > 0 {
				if variant == nil {
					continue
				}
				affected, err := productRepo.AdjustVariantStock(variant.ID, -item.Quantity)
				if err != nil {
					return err
				}
				if affected == 0 {
					return ErrInsufficientStock
				}
			}

			unit := UnitPrice(product, variant)
			variantName := ""
			sku := product.SKU
			if variant != nil {
				variantName = variant.Name
				if variant.SKU != "" {
					sku = variant.SKU
				}
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID:   product.ID,
				VariantID:   item.VariantID,
				ProductName: product.Title,
				VariantName: variantName,
				SKU:         sku,
				UnitPrice:   unit,
				Quantity:    item.Quantity,
				TotalPrice:  models.NewMoneyFromDecimal(unit.Mul(intToDecimal(item.Quantity))),
			})
		}
		if len(order.Items) == 0 {
			return ErrEmptyCart
		}

		if err := orderRepo.Create(order); err != nil {
			return err
		}
		return cartRepo.Delete(cart.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_number", order.OrderNumber,
		"customer_email", order.CustomerEmail,
		"total", order.TotalAmount.String(),
	)
	s.notification.Notify(
		constants.NotificationTypeOrderCreated,
		"New order "+order.OrderNumber,
		fmt.Sprintf("%s placed an order totalling %s %s", order.CustomerName, order.TotalAmount.String(), order.Currency),
		map[string]interface{}{"order_id": order.ID, "order_number": order.OrderNumber},
	)

	return s.chargeOrder(ctx, order)
}

// chargeOrder runs the configured payment provider against a pending order.
func (s *OrderService) chargeOrder(ctx context.Context, order *models.Order) (*CheckoutResult, error) {
	result := &CheckoutResult{Order: order}

	if s.provider == nil {
		if err := s.markPaid(order, "MOCK-"+order.OrderNumber, ""); err != nil {
			return nil, err
		}
		return result, nil
	}

	charge, err := s.provider.ProcessPayment(ctx, payment.ChargeInput{
		OrderNumber: order.OrderNumber,
		Amount:      order.TotalAmount.String(),
		Currency:    order.Currency,
		Description: "Order " + order.OrderNumber,
	})
	if err != nil {
		logger.Errorw("payment_process_failed", "order_number", order.OrderNumber, "provider", s.provider.Name(), "error", err)
		if updErr := s.orderRepo.UpdateStatuses(order.ID, map[string]interface{}{
			"payment_status":   constants.PaymentStatusFailed,
			"payment_provider": s.provider.Name(),
		}); updErr != nil {
			return nil, updErr
		}
		order.PaymentStatus = constants.PaymentStatusFailed
		order.PaymentProvider = s.provider.Name()
		result.Message = "payment failed"
		return result, nil
	}

	fields := map[string]interface{}{
		"payment_provider": s.provider.Name(),
	}
	order.PaymentProvider = s.provider.Name()
	if charge.TransactionID != "" {
		fields["transaction_id"] = charge.TransactionID
		order.TransactionID = charge.TransactionID
	}
	if charge.Success {
		now := time.Now()
		fields["payment_status"] = constants.PaymentStatusPaid
		fields["paid_at"] = now
		order.PaymentStatus = constants.PaymentStatusPaid
		order.PaidAt = &now
	} else if charge.Message != "" && charge.RedirectURL == "" {
		fields["payment_status"] = constants.PaymentStatusFailed
		order.PaymentStatus = constants.PaymentStatusFailed
	}
	if err := s.orderRepo.UpdateStatuses(order.ID, fields); err != nil {
		return nil, err
	}
	if charge.Success {
		s.notifyPaid(order)
	}

	result.RedirectURL = charge.RedirectURL
	result.Message = charge.Message
	return result, nil
}

// markPaid settles an order without a provider round trip.
func (s *OrderService) markPaid(order *models.Order, transactionID, providerName string) error {
	now := time.Now()
	fields := map[string]interface{}{
		"payment_status": constants.PaymentStatusPaid,
		"transaction_id": transactionID,
		"paid_at":        now,
	}
	if providerName != "" {
		fields["payment_provider"] = providerName
	}
	if err := s.orderRepo.UpdateStatuses(order.ID, fields); err != nil {
		return err
	}
	order.PaymentStatus = constants.PaymentStatusPaid
	order.TransactionID = transactionID
	order.PaidAt = &now
	if providerName != "" {
		order.PaymentProvider = providerName
	}
	s.notifyPaid(order)
	return nil
}

func (s *OrderService) notifyPaid(order *models.Order) {
	logger.Infow("order_paid", "order_number", order.OrderNumber, "transaction_id", order.TransactionID)
	s.notification.Notify(
		constants.NotificationTypeOrderPaid,
		"Order "+order.OrderNumber+" paid",
		fmt.Sprintf("Payment of %s %s confirmed", order.TotalAmount.String(), order.Currency),
		map[string]interface{}{"order_id": order.ID, "order_number": order.OrderNumber},
	)
}

// Get loads an order by id.
func (s *OrderService) Get(id uint, withDeleted bool) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id, withDeleted)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByNumber loads an order by its public number. For storefront lookups the
// caller passes the buyer's email, which must match.
func (s *OrderService) GetByNumber(orderNumber, customerEmail string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(strings.TrimSpace(orderNumber), false)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if customerEmail != "" && !strings.EqualFold(order.CustomerEmail, strings.TrimSpace(customerEmail)) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List returns orders matching the filter.
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// MarkFulfilled marks a paid order as shipped.
func (s *OrderService) MarkFulfilled(id uint) (*models.Order, error) {
	order, err := s.Get(id, false)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != constants.PaymentStatusPaid {
		return nil, ErrOrderNotPaid
	}
	if err := s.orderRepo.UpdateStatuses(id, map[string]interface{}{
		"fulfillment_status": constants.FulfillmentStatusFulfilled,
	}); err != nil {
		return nil, err
	}
	order.FulfillmentStatus = constants.FulfillmentStatusFulfilled

	logger.Infow("order_fulfilled", "order_number", order.OrderNumber)
	s.notification.Notify(
		constants.NotificationTypeOrderShipped,
		"Order "+order.OrderNumber+" shipped",
		"Order "+order.OrderNumber+" was marked fulfilled",
		map[string]interface{}{"order_id": order.ID, "order_number": order.OrderNumber},
	)
	return order, nil
}

// MarkPaidManually settles a pending order from the admin panel.
func (s *OrderService) MarkPaidManually(id uint) (*models.Order, error) {
	order, err := s.Get(id, false)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == constants.PaymentStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}
	if err := s.markPaid(order, "MANUAL-"+order.OrderNumber, ""); err != nil {
		return nil, err
	}
	return order, nil
}

// Refund refunds a paid order through its provider.
func (s *OrderService) Refund(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Get(id, false)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != constants.PaymentStatusPaid {
		return nil, ErrOrderNotPaid
	}

	if s.provider != nil && order.TransactionID != "" {
		refund, err := s.provider.RefundPayment(ctx, order.TransactionID)
		if err != nil {
			logger.Errorw("payment_refund_failed", "order_number", order.OrderNumber, "error", err)
			return nil, err
		}
		if !refund.Success {
			logger.Warnw("payment_refund_refused", "order_number", order.OrderNumber, "message", refund.Message)
			return nil, ErrRefundFailed
		}
	}

	if err := s.orderRepo.UpdateStatuses(id, map[string]interface{}{
		"payment_status": constants.PaymentStatusRefunded,
	}); err != nil {
		return nil, err
	}
	order.PaymentStatus = constants.PaymentStatusRefunded
	logger.Infow("order_refunded", "order_number", order.OrderNumber)
	return order, nil
}

// Cancel soft deletes an order and restores variant stock.
func (s *OrderService) Cancel(id uint) error {
	order, err := s.Get(id, false)
	if err != nil {
		return err
	}
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		for i := range order.Items {
			item := &order.Items[i]
			if item.VariantID == 0 {
				continue
			}
			if _, err := productRepo.AdjustVariantStock(item.VariantID, item.Quantity); err != nil {
				return err
			}
		}
		if err := orderRepo.UpdateStatuses(order.ID, map[string]interface{}{
			"fulfillment_status": constants.FulfillmentStatusCancelled,
		}); err != nil {
			return err
		}
		return orderRepo.Delete(order.ID)
	})
	if err != nil {
		return err
	}
	logger.Infow("order_cancelled", "order_number", order.OrderNumber)
	return nil
}

// Restore undoes a cancellation and re-reserves variant stock.
func (s *OrderService) Restore(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id, true)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.DeletedAt.Valid {
		return nil, ErrOrderNotCancelled
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		for i := range order.Items {
			item := &order.Items[i]
			if item.VariantID == 0 {
				continue
			}
			affected, err := productRepo.AdjustVariantStock(item.VariantID, -item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
		}
		if err := orderRepo.Restore(order.ID); err != nil {
			return err
		}
		return orderRepo.UpdateStatuses(order.ID, map[string]interface{}{
			"fulfillment_status": constants.FulfillmentStatusUnfulfilled,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_restored", "order_number", order.OrderNumber)
	return s.Get(id, false)
}

// HandleWebhook applies a verified provider callback to its order.
func (s *OrderService) HandleWebhook(headers map[string]string, body []byte) error {
	if s.provider == nil {
		return ErrWebhookUnsupported
	}
	event, err := s.provider.ValidateWebhook(headers, body)
	if err != nil {
		return err
	}
	if event.OrderNumber == "" {
		logger.Warnw("payment_webhook_without_order", "provider", s.provider.Name(), "status", event.Status)
		return nil
	}
	order, err := s.orderRepo.GetByOrderNumber(event.OrderNumber, false)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("payment_webhook_order_missing", "order_number", event.OrderNumber)
		return nil
	}

	switch event.Status {
	case "success":
		if order.PaymentStatus == constants.PaymentStatusPaid {
			return nil
		}
		return s.markPaid(order, event.TransactionID, s.provider.Name())
	case "failed", "expired":
		if order.PaymentStatus != constants.PaymentStatusPending {
			return nil
		}
		return s.orderRepo.UpdateStatuses(order.ID, map[string]interface{}{
			"payment_status": constants.PaymentStatusFailed,
		})
	case "refunded":
		return s.orderRepo.UpdateStatuses(order.ID, map[string]interface{}{
			"payment_status": constants.PaymentStatusRefunded,
		})
	default:
		return nil
	}
}

// Statistics aggregates order counts and revenue, optionally within a
// creation-date range.
func (s *OrderService) Statistics(from, to *time.Time) (repository.OrderStatistics, error) {
	return s.orderRepo.Statistics(from, to)
}

// UpdateStatus sets payment and fulfillment status directly, without the
// transition guards the dedicated operations enforce. Stock is not touched;
// use Cancel/Restore when reservations should move. An empty field leaves
// that status alone.
func (s *OrderService) UpdateStatus(id uint, paymentStatus, fulfillmentStatus string) (*models.Order, error) {
	order, err := s.Get(id, false)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if paymentStatus != "" {
		switch paymentStatus {
		case constants.PaymentStatusPending, constants.PaymentStatusPaid,
			constants.PaymentStatusFailed, constants.PaymentStatusRefunded:
		default:
			return nil, ErrInvalidOrderStatus
		}
		fields["payment_status"] = paymentStatus
	}
	if fulfillmentStatus != "" {
		switch fulfillmentStatus {
		case constants.FulfillmentStatusUnfulfilled, constants.FulfillmentStatusFulfilled,
			constants.FulfillmentStatusCancelled:
		default:
			return nil, ErrInvalidOrderStatus
		}
		fields["fulfillment_status"] = fulfillmentStatus
	}
	if len(fields) == 0 {
		return order, nil
	}

	becamePaid := paymentStatus == constants.PaymentStatusPaid && order.PaymentStatus != constants.PaymentStatusPaid
	becameFulfilled := fulfillmentStatus == constants.FulfillmentStatusFulfilled &&
		order.FulfillmentStatus != constants.FulfillmentStatusFulfilled
	if becamePaid {
		now := time.Now()
		fields["paid_at"] = now
		order.PaidAt = &now
	}

	if err := s.orderRepo.UpdateStatuses(id, fields); err != nil {
		return nil, err
	}
	if paymentStatus != "" {
		order.PaymentStatus = paymentStatus
	}
	if fulfillmentStatus != "" {
		order.FulfillmentStatus = fulfillmentStatus
	}

	logger.Infow("order_status_updated",
		"order_number", order.OrderNumber,
		"payment_status", order.PaymentStatus,
		"fulfillment_status", order.FulfillmentStatus,
	)
	if becamePaid {
		s.notifyPaid(order)
	}
	if becameFulfilled {
		s.notification.Notify(
			constants.NotificationTypeOrderShipped,
			"Order "+order.OrderNumber+" shipped",
			"Order "+order.OrderNumber+" was marked fulfilled",
			map[string]interface{}{"order_id": order.ID, "order_number": order.OrderNumber},
		)
	}
	return order, nil
}
