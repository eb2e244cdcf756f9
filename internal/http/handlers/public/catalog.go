package public

import (
	"strconv"

	"github.com/inkfolio-shop/internal/http/handlers/shared"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListProducts serves the published catalog. Supports category, search and
// pagination query parameters.
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)

	filter := repository.ProductListFilter{
		Page:          page,
		PageSize:      pageSize,
		CategorySlug:  c.Query("category"),
		Search:        c.Query("search"),
		OnlyPublished: true,
		WithCategory:  true,
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.CategoryID = uint(id)
		}
	}

	products, total, err := h.ProductService.ListPublished(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"products": products}, response.NewPagination(page, pageSize, total))
}

// GetProduct serves one published product by slug.
func (h *Handler) GetProduct(c *gin.Context) {
	slug := c.Param("slug")
	product, err := h.ProductService.GetPublishedBySlug(slug)
	if err != nil {
		shared.RespondMappedError(c, err, productLookupErrorRules, "failed to load product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// ListCategories serves all categories.
func (h *Handler) ListCategories(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	categories, total, err := h.CategoryService.List(repository.CategoryListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"categories": categories}, response.NewPagination(page, pageSize, total))
}
