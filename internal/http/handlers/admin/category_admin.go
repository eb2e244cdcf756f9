package admin

import (
	"github.com/inkfolio-shop/internal/http/handlers/shared"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/repository"
	"github.com/inkfolio-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCategories lists categories for management.
func (h *Handler) ListCategories(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	categories, total, err := h.CategoryService.List(repository.CategoryListFilter{
		Page:        page,
		PageSize:    pageSize,
		Search:      c.Query("search"),
		WithDeleted: c.Query("with_deleted") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"categories": categories}, response.NewPagination(page, pageSize, total))
}

// CreateCategory adds a category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	category, err := h.CategoryService.Create(req)
	if err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to create category")
		return
	}
	response.Success(c, gin.H{"category": category})
}

// UpdateCategory updates a category.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	category, err := h.CategoryService.Update(id, req)
	if err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to update category")
		return
	}
	response.Success(c, gin.H{"category": category})
}

// DeleteCategory soft-deletes a category. Refused while products still
// reference it.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(id); err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to delete category")
		return
	}
	response.SuccessWithMsg(c, "category deleted", nil)
}

// RestoreCategory brings a soft-deleted category back.
func (h *Handler) RestoreCategory(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CategoryService.Restore(id); err != nil {
		shared.RespondMappedError(c, err, catalogErrorRules, "failed to restore category")
		return
	}
	response.SuccessWithMsg(c, "category restored", nil)
}
