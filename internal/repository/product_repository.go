package repository

import (
	"errors"
	"strings"

	"github.com/inkfolio-shop/internal/constants"
	"github.com/inkfolio-shop/internal/models"

	"gorm.io/gorm"
)

// ProductRepository is the product data access interface.
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint, withDeleted bool) (*models.Product, error)
	GetBySlug(slug string, onlyPublished bool) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	Restore(id uint) error
	CountBySlug(slug string, excludeID uint) (int64, error)

	GetVariant(id uint) (*models.ProductVariant, error)
	CreateVariant(variant *models.ProductVariant) error
	UpdateVariant(variant *models.ProductVariant) error
	DeleteVariant(id uint) error
	AdjustVariantStock(id uint, delta int) (int64, error)

	CreateImage(image *models.ProductImage) error
	UpdateImage(image *models.ProductImage) error
	DeleteImage(id uint) error
	ListImages(productID uint) ([]models.ProductImage, error)

	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository is the GORM implementation.
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List returns products matching the filter with a total count.
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if filter.WithDeleted {
		query = query.Unscoped()
	}
	if filter.WithCategory {
		query = query.Preload("Category")
	}
	query = query.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, id ASC")
	})
	if filter.OnlyPublished {
		query = query.Where("status = ?", constants.ProductStatusPublished)
		query = query.Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("id ASC")
		})
	} else {
		query = query.Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		query = query.Where("category_id IN (?)", r.db.Model(&models.Category{}).Select("id").Where("slug = ?", slug))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR slug LIKE ? OR summary LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order DESC, created_at DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetByID loads a product with variants and images.
func (r *GormProductRepository) GetByID(id uint, withDeleted bool) (*models.Product, error) {
	var product models.Product
	query := r.db
	if withDeleted {
		query = query.Unscoped()
	}
	err := query.
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetBySlug loads a product by slug.
func (r *GormProductRepository) GetBySlug(slug string, onlyPublished bool) (*models.Product, error) {
	var product models.Product
	query := r.db.Where("slug = ?", slug)
	if onlyPublished {
		query = query.Where("status = ?", constants.ProductStatusPublished)
		query = query.Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("id ASC")
		})
	} else {
		query = query.Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
	}
	err := query.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create inserts a product.
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update saves a product.
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete soft deletes a product.
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// Restore clears the soft delete mark.
func (r *GormProductRepository) Restore(id uint) error {
	return r.db.Unscoped().Model(&models.Product{}).Where("id = ?", id).Update("deleted_at", nil).Error
}

// CountBySlug counts products holding a slug, optionally excluding one id.
// Soft-deleted rows count too so a restore cannot collide.
func (r *GormProductRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Unscoped().Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

// GetVariant loads a variant by id.
func (r *GormProductRepository) GetVariant(id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// CreateVariant inserts a variant.
func (r *GormProductRepository) CreateVariant(variant *models.ProductVariant) error {
	return r.db.Create(variant).Error
}

// UpdateVariant saves a variant.
func (r *GormProductRepository) UpdateVariant(variant *models.ProductVariant) error {
	return r.db.Save(variant).Error
}

// DeleteVariant soft deletes a variant.
func (r *GormProductRepository) DeleteVariant(id uint) error {
	return r.db.Delete(&models.ProductVariant{}, id).Error
}

// AdjustVariantStock applies a stock delta guarded against going negative.
// Returns the number of affected rows; 0 means insufficient stock.
func (r *GormProductRepository) AdjustVariantStock(id uint, delta int) (int64, error) {
	query := r.db.Model(&models.ProductVariant{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("stock >= ?", -delta)
	}
	result := query.UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	return result.RowsAffected, result.Error
}

// CreateImage inserts an image.
func (r *GormProductRepository) CreateImage(image *models.ProductImage) error {
	return r.db.Create(image).Error
}

// UpdateImage saves an image.
func (r *GormProductRepository) UpdateImage(image *models.ProductImage) error {
	return r.db.Save(image).Error
}

// DeleteImage removes an image row.
func (r *GormProductRepository) DeleteImage(id uint) error {
	return r.db.Delete(&models.ProductImage{}, id).Error
}

// ListImages returns a product's images in display order.
func (r *GormProductRepository) ListImages(productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := r.db.Where("product_id = ?", productID).Order("position ASC, id ASC").Find(&images).Error
	return images, err
}
