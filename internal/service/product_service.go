package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/inkfolio-shop/internal/cache"
	"github.com/inkfolio-shop/internal/constants"
	"github.com/inkfolio-shop/internal/logger"
	"github.com/inkfolio-shop/internal/models"
	"github.com/inkfolio-shop/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	catalogCachePrefix = "catalog"
	catalogCacheTTL    = 5 * time.Minute
)

// ProductInput carries product create/update fields.
type ProductInput struct {
	CategoryID  uint   `json:"category_id"`
	Slug        string `json:"slug" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	BasePrice   string `json:"base_price" binding:"required"`
	Currency    string `json:"currency"`
	SKU         string `json:"sku"`
	GTIN        string `json:"gtin"`
	Status      string `json:"status"`
	SortOrder   int    `json:"sort_order"`
}

// VariantInput carries variant create/update fields.
type VariantInput struct {
	Name            string                 `json:"name" binding:"required"`
	Attributes      map[string]interface{} `json:"attributes"`
	PriceAdjustment string                 `json:"price_adjustment"`
	Stock           int                    `json:"stock"`
	SKU             string                 `json:"sku"`
	IsActive        *bool                  `json:"is_active"`
}

// ImageInput carries image create/update fields.
type ImageInput struct {
	Path     string `json:"path" binding:"required"`
	Alt      string `json:"alt"`
	Position int    `json:"position"`
}

// ProductService manages the catalog.
type ProductService struct {
	productRepo     repository.ProductRepository
	categoryRepo    repository.CategoryRepository
	defaultCurrency string
}

// NewProductService creates a product service.
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, defaultCurrency string) *ProductService {
	currency := strings.ToUpper(strings.TrimSpace(defaultCurrency))
	if currency == "" {
		currency = "USD"
	}
	return &ProductService{
		productRepo:     productRepo,
		categoryRepo:    categoryRepo,
		defaultCurrency: currency,
	}
}

// List returns products matching the filter.
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// ListPublished returns the storefront catalog, served from cache when warm.
func (s *ProductService) ListPublished(ctx context.Context, filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyPublished = true
	filter.WithDeleted = false

	type cached struct {
		Products []models.Product `json:"products"`
		Total    int64            `json:"total"`
	}
	key := catalogCacheKey(filter)
	var hit cached
	if ok, err := cache.GetJSON(ctx, key, &hit); err != nil {
		logger.Warnw("catalog_cache_read_failed", "error", err)
	} else if ok {
		return hit.Products, hit.Total, nil
	}

	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	if err := cache.SetJSON(ctx, key, cached{Products: products, Total: total}, catalogCacheTTL); err != nil {
		logger.Warnw("catalog_cache_write_failed", "error", err)
	}
	return products, total, nil
}

// GetPublishedBySlug loads one published product for the storefront.
func (s *ProductService) GetPublishedBySlug(slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Get loads a product by id for admin use.
func (s *ProductService) Get(id uint, withDeleted bool) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id, withDeleted)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create inserts a product.
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	slug := strings.TrimSpace(input.Slug)
	count, err := s.productRepo.CountBySlug(slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}
	if input.CategoryID > 0 {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
	}
	price, err := parseAmount(input.BasePrice)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:  input.CategoryID,
		Slug:        slug,
		Title:       strings.TrimSpace(input.Title),
		Summary:     input.Summary,
		Description: input.Description,
		BasePrice:   models.NewMoneyFromDecimal(price),
		Currency:    s.currencyOrDefault(input.Currency),
		SKU:         strings.TrimSpace(input.SKU),
		GTIN:        strings.TrimSpace(input.GTIN),
		Status:      statusOrDefault(input.Status),
		SortOrder:   input.SortOrder,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache(ctx)
	return product, nil
}

// Update saves product fields.
func (s *ProductService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.Get(id, false)
	if err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(input.Slug)
	if slug != product.Slug {
		count, err := s.productRepo.CountBySlug(slug, id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
	}
	if input.CategoryID > 0 && input.CategoryID != product.CategoryID {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
	}
	price, err := parseAmount(input.BasePrice)
	if err != nil {
		return nil, err
	}

	product.CategoryID = input.CategoryID
	product.Slug = slug
	product.Title = strings.TrimSpace(input.Title)
	product.Summary = input.Summary
	product.Description = input.Description
	product.BasePrice = models.NewMoneyFromDecimal(price)
	product.Currency = s.currencyOrDefault(input.Currency)
	product.SKU = strings.TrimSpace(input.SKU)
	product.GTIN = strings.TrimSpace(input.GTIN)
	product.Status = statusOrDefault(input.Status)
	product.SortOrder = input.SortOrder
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache(ctx)
	return product, nil
}

// Delete soft deletes a product.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(id, false); err != nil {
		return err
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateCatalogCache(ctx)
	return nil
}

// Restore brings back a soft-deleted product.
func (s *ProductService) Restore(ctx context.Context, id uint) error {
	product, err := s.productRepo.GetByID(id, true)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Restore(id); err != nil {
		return err
	}
	s.invalidateCatalogCache(ctx)
	return nil
}

// CreateVariant adds a variant to a product.
func (s *ProductService) CreateVariant(ctx context.Context, productID uint, input VariantInput) (*models.ProductVariant, error) {
	if _, err := s.Get(productID, false); err != nil {
		return nil, err
	}
	adjustment, err := parseOptionalAmount(input.PriceAdjustment)
	if err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	variant := &models.ProductVariant{
		ProductID:       productID,
		Name:            strings.TrimSpace(input.Name),
		Attributes:      models.JSON(input.Attributes),
		PriceAdjustment: models.NewMoneyFromDecimal(adjustment),
		Stock:           input.Stock,
		SKU:             strings.TrimSpace(input.SKU),
		IsActive:        isActive,
	}
	if err := s.productRepo.CreateVariant(variant); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache(ctx)
	return variant, nil
}

// UpdateVariant saves variant fields.
func (s *ProductService) UpdateVariant(ctx context.Context, id uint, input VariantInput) (*models.ProductVariant, error) {
	variant, err := s.productRepo.GetVariant(id)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	adjustment, err := parseOptionalAmount(input.PriceAdjustment)
	if err != nil {
		return nil, err
	}

	variant.Name = strings.TrimSpace(input.Name)
	variant.Attributes = models.JSON(input.Attributes)
	variant.PriceAdjustment = models.NewMoneyFromDecimal(adjustment)
	variant.Stock = input.Stock
	variant.SKU = strings.TrimSpace(input.SKU)
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}
	if err := s.productRepo.UpdateVariant(variant); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache(ctx)
	return variant, nil
}

// DeleteVariant removes a variant.
func (s *ProductService) DeleteVariant(ctx context.Context, id uint) error {
	variant, err := s.productRepo.GetVariant(id)
	if err != nil {
		return err
	}
	if variant == nil {
		return ErrVariantNotFound
	}
	if err := s.productRepo.DeleteVariant(id); err != nil {
		return err
	}
	s.invalidateCatalogCache(ctx)
	return nil
}

// AddImage attaches an image to a product.
func (s *ProductService) AddImage(ctx context.Context, productID uint, input ImageInput) (*models.ProductImage, error) {
	if _, err := s.Get(productID, false); err != nil {
		return nil, err
	}
	image := &models.ProductImage{
		ProductID: productID,
		Path:      strings.TrimSpace(input.Path),
		Alt:       input.Alt,
		Position:  input.Position,
	}
	if err := s.productRepo.CreateImage(image); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache(ctx)
	return image, nil
}

// DeleteImage detaches an image.
func (s *ProductService) DeleteImage(ctx context.Context, id uint) error {
	if err := s.productRepo.DeleteImage(id); err != nil {
		return err
	}
	s.invalidateCatalogCache(ctx)
	return nil
}

// UnitPrice computes the effective unit price of a product/variant pair.
func UnitPrice(product *models.Product, variant *models.ProductVariant) models.Money {
	price := product.BasePrice.Decimal
	if variant != nil {
		price = price.Add(variant.PriceAdjustment.Decimal)
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	return models.NewMoneyFromDecimal(price)
}

func (s *ProductService) currencyOrDefault(currency string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(currency))
	if trimmed == "" {
		return s.defaultCurrency
	}
	return trimmed
}

func statusOrDefault(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case constants.ProductStatusPublished:
		return constants.ProductStatusPublished
	case constants.ProductStatusArchived:
		return constants.ProductStatusArchived
	default:
		return constants.ProductStatusDraft
	}
}

func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

func parseOptionalAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(trimmed)
}

func (s *ProductService) invalidateCatalogCache(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cache.DelByPrefix(ctx, catalogCachePrefix); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "error", err)
	}
}

func catalogCacheKey(filter repository.ProductListFilter) string {
	parts := []string{
		catalogCachePrefix,
		"list",
		filter.CategorySlug,
		strings.TrimSpace(filter.Search),
	}
	return strings.Join(parts, ":") + ":" +
		strconv.FormatUint(uint64(filter.CategoryID), 10) + ":" +
		strconv.Itoa(filter.Page) + ":" + strconv.Itoa(filter.PageSize)
}
