package admin

import (
	"github.com/inkfolio-shop/internal/http/handlers/shared"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/repository"
	"github.com/inkfolio-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts lists catalog products for management, including drafts.
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       c.Query("search"),
		Status:       c.Query("status"),
		CategorySlug: c.Query("category"),
		WithCategory: true,
		WithDeleted:  c.Query("with_deleted") == "true",
	}
	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"products": products}, response.NewPagination(page, pageSize, total))
}

// GetProduct fetches one product by id, including soft-deleted ones.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(id, true)
	if err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to load product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// CreateProduct adds a catalog product.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.Create(c.Request.Context(), req)
	if err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to create product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// UpdateProduct updates a catalog product.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.Update(c.Request.Context(), id, req)
	if err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to update product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// DeleteProduct soft-deletes a product. It disappears from the storefront
// but can be restored.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(c.Request.Context(), id); err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to delete product")
		return
	}
	response.SuccessWithMsg(c, "product deleted", nil)
}

// RestoreProduct brings a soft-deleted product back.
func (h *Handler) RestoreProduct(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Restore(c.Request.Context(), id); err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to restore product")
		return
	}
	response.SuccessWithMsg(c, "product restored", nil)
}

// CreateVariant adds a variant to a product.
func (h *Handler) CreateVariant(c *gin.Context) {
	productID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.VariantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	variant, err := h.ProductService.CreateVariant(c.Request.Context(), productID, req)
	if err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to create variant")
		return
	}
	response.Success(c, gin.H{"variant": variant})
}

// UpdateVariant updates a variant.
func (h *Handler) UpdateVariant(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.VariantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	variant, err := h.ProductService.UpdateVariant(c.Request.Context(), id, req)
	if err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to update variant")
		return
	}
	response.Success(c, gin.H{"variant": variant})
}

// DeleteVariant removes a variant.
func (h *Handler) DeleteVariant(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteVariant(c.Request.Context(), id); err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to delete variant")
		return
	}
	response.SuccessWithMsg(c, "variant deleted", nil)
}

// AddProductImage attaches an image record to a product.
func (h *Handler) AddProductImage(c *gin.Context) {
	productID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.ImageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	image, err := h.ProductService.AddImage(c.Request.Context(), productID, req)
	if err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to add image")
		return
	}
	response.Success(c, gin.H{"image": image})
}

// DeleteProductImage removes an image record.
func (h *Handler) DeleteProductImage(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteImage(c.Request.Context(), id); err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to delete image")
		return
	}
	response.SuccessWithMsg(c, "image deleted", nil)
}
