package public

import (
	"github.com/inkfolio-shop/internal/http/handlers/shared"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateCartItemRequest changes the quantity of one cart line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart returns the caller's cart with computed totals. An unknown session
// token yields an empty cart rather than an error.
func (h *Handler) GetCart(c *gin.Context) {
	token, ok := shared.SessionToken(c)
	if !ok {
		return
	}
	view, err := h.CartService.Get(token)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load cart", err)
		return
	}
	response.Success(c, view)
}

// AddCartItem adds a product (optionally a variant) to the cart. Adding the
// same product/variant pair again merges quantities into one line.
func (h *Handler) AddCartItem(c *gin.Context) {
	token, ok := shared.SessionToken(c)
	if !ok {
		return
	}
	var req service.AddCartItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	view, err := h.CartService.AddItem(token, req)
	if err != nil {
		shared.RespondMappedError(c, err, cartErrorRules, "failed to update cart")
		return
	}
	response.Success(c, view)
}

// UpdateCartItem sets the quantity of a cart line. Zero removes the line.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	token, ok := shared.SessionToken(c)
	if !ok {
		return
	}
	itemID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	view, err := h.CartService.UpdateItemQuantity(token, itemID, *req.Quantity)
	if err != nil {
		shared.RespondMappedError(c, err, cartErrorRules, "failed to update cart")
		return
	}
	response.Success(c, view)
}

// RemoveCartItem deletes one cart line.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	token, ok := shared.SessionToken(c)
	if !ok {
		return
	}
	itemID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	view, err := h.CartService.RemoveItem(token, itemID)
	if err != nil {
		shared.RespondMappedError(c, err, cartErrorRules, "failed to update cart")
		return
	}
	response.Success(c, view)
}

// ApplyCartDiscount sets a flat discount code and amount on the cart. The
// code is stored as given, not checked against a promotion table.
func (h *Handler) ApplyCartDiscount(c *gin.Context) {
	token, ok := shared.SessionToken(c)
	if !ok {
		return
	}
	var req service.ApplyDiscountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	view, err := h.CartService.ApplyDiscount(token, req)
	if err != nil {
		shared.RespondMappedError(c, err, cartErrorRules, "failed to update cart")
		return
	}
	response.Success(c, view)
}

// RemoveCartDiscount clears the cart's discount.
func (h *Handler) RemoveCartDiscount(c *gin.Context) {
	token, ok := shared.SessionToken(c)
	if !ok {
		return
	}
	view, err := h.CartService.RemoveDiscount(token)
	if err != nil {
		shared.RespondMappedError(c, err, cartErrorRules, "failed to update cart")
		return
	}
	response.Success(c, view)
}

// ClearCart removes every line from the cart.
func (h *Handler) ClearCart(c *gin.Context) {
	token, ok := shared.SessionToken(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(token); err != nil {
		shared.RespondMappedError(c, err, cartErrorRules, "failed to clear cart")
		return
	}
	response.SuccessWithMsg(c, "cart cleared", nil)
}
