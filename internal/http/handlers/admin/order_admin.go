package admin

import (
	"time"

	"github.com/inkfolio-shop/internal/http/handlers/shared"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOrders lists orders with optional status, customer and date filters.
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	filter := repository.OrderListFilter{
		Page:              page,
		PageSize:          pageSize,
		OrderNumber:       c.Query("order_number"),
		CustomerEmail:     c.Query("email"),
		PaymentStatus:     c.Query("payment_status"),
		FulfillmentStatus: c.Query("fulfillment_status"),
		WithDeleted:       c.Query("with_deleted") == "true",
	}
	if raw := c.Query("created_from"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedFrom = &ts
		}
	}
	if raw := c.Query("created_to"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedTo = &ts
		}
	}

	orders, total, err := h.OrderService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"orders": orders}, response.NewPagination(page, pageSize, total))
}

// GetOrder fetches one order with its lines, including cancelled orders.
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Get(id, true)
	if err != nil {
		shared.RespondMappedError(c, err, orderErrorRules, "failed to load order")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// FulfillOrder marks a paid order as fulfilled.
func (h *Handler) FulfillOrder(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.MarkFulfilled(id)
	if err != nil {
		shared.RespondMappedError(c, err, orderErrorRules, "failed to fulfill order")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// MarkOrderPaid settles an order out of band, e.g. for a bank transfer.
func (h *Handler) MarkOrderPaid(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.MarkPaidManually(id)
	if err != nil {
		shared.RespondMappedError(c, err, orderErrorRules, "failed to mark order paid")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// UpdateOrderStatusRequest carries a direct status override. Empty fields are
// left unchanged.
type UpdateOrderStatusRequest struct {
	PaymentStatus     string `json:"payment_status"`
	FulfillmentStatus string `json:"fulfillment_status"`
}

// UpdateOrderStatus sets order statuses directly, bypassing the transition
// guards of the dedicated endpoints.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(id, req.PaymentStatus, req.FulfillmentStatus)
	if err != nil {
		shared.RespondMappedError(c, err, orderErrorRules, "failed to update order status")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// RefundOrder refunds a paid order through its payment provider.
func (h *Handler) RefundOrder(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Refund(c.Request.Context(), id)
	if err != nil {
		shared.RespondMappedError(c, err, orderErrorRules, "failed to refund order")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// CancelOrder cancels an order and puts reserved stock back.
func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.OrderService.Cancel(id); err != nil {
		shared.RespondMappedError(c, err, orderErrorRules, "failed to cancel order")
		return
	}
	response.SuccessWithMsg(c, "order cancelled", nil)
}

// RestoreOrder undoes a cancellation. Fails when the stock has since been
// sold to someone else.
func (h *Handler) RestoreOrder(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Restore(id)
	if err != nil {
		shared.RespondMappedError(c, err, orderErrorRules, "failed to restore order")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// OrderStatistics summarizes order counts and paid revenue, optionally
// restricted to a from/to creation-date range.
func (h *Handler) OrderStatistics(c *gin.Context) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			from = &ts
		}
	}
	if raw := c.Query("to"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			to = &ts
		}
	}
	stats, err := h.OrderService.Statistics(from, to)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load statistics", err)
		return
	}
	response.Success(c, gin.H{"statistics": stats})
}
