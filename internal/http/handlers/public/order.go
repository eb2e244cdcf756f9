package public

import (
	"strings"

	"github.com/inkfolio-shop/internal/http/handlers/shared"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// Checkout turns the caller's cart into an order and starts payment. The
// response carries the order plus a redirect URL when the provider needs one.
func (h *Handler) Checkout(c *gin.Context) {
	token, ok := shared.SessionToken(c)
	if !ok {
		return
	}
	var req service.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	result, err := h.OrderService.CreateOrderFromCart(c.Request.Context(), token, req)
	if err != nil {
		shared.RespondMappedError(c, err, checkoutErrorRules, "checkout failed")
		return
	}
	response.Success(c, result)
}

// GetOrder looks up one order by number. The customer email must match; a
// wrong email looks exactly like a missing order.
func (h *Handler) GetOrder(c *gin.Context) {
	orderNumber := strings.TrimSpace(c.Param("number"))
	email := strings.TrimSpace(c.Query("email"))
	if orderNumber == "" || email == "" {
		respondError(c, response.CodeBadRequest, "order number and email are required", nil)
		return
	}
	order, err := h.OrderService.GetByNumber(orderNumber, email)
	if err != nil {
		shared.RespondMappedError(c, err, orderLookupErrorRules, "failed to load order")
		return
	}
	response.Success(c, gin.H{"order": order})
}
