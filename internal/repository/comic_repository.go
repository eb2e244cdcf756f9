package repository

import (
	"errors"
	"strings"

	"github.com/inkfolio-shop/internal/models"

	"gorm.io/gorm"
)

// ComicRepository is the comic data access interface.
type ComicRepository interface {
	List(filter ComicListFilter) ([]models.Comic, int64, error)
	GetByID(id uint) (*models.Comic, error)
	GetBySlug(slug string, onlyPublished bool) (*models.Comic, error)
	Create(comic *models.Comic) error
	Update(comic *models.Comic) error
	Delete(id uint) error
	Restore(id uint) error
	CountBySlug(slug string, excludeID uint) (int64, error)
	WithTx(tx *gorm.DB) ComicRepository
}

// GormComicRepository is the GORM implementation.
type GormComicRepository struct {
	db *gorm.DB
}

// NewComicRepository creates a comic repository.
func NewComicRepository(db *gorm.DB) *GormComicRepository {
	return &GormComicRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormComicRepository) WithTx(tx *gorm.DB) ComicRepository {
	if tx == nil {
		return r
	}
	return &GormComicRepository{db: tx}
}

// List returns comics newest first within sort order.
func (r *GormComicRepository) List(filter ComicListFilter) ([]models.Comic, int64, error) {
	var comics []models.Comic

	query := r.db.Model(&models.Comic{})
	if filter.WithDeleted {
		query = query.Unscoped()
	}
	if filter.OnlyPublished {
		query = query.Where("is_published = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order DESC, published_at DESC, id DESC").Find(&comics).Error; err != nil {
		return nil, 0, err
	}

	return comics, total, nil
}

// GetByID loads a comic by id.
func (r *GormComicRepository) GetByID(id uint) (*models.Comic, error) {
	var comic models.Comic
	if err := r.db.First(&comic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comic, nil
}

// GetBySlug loads a comic by slug.
func (r *GormComicRepository) GetBySlug(slug string, onlyPublished bool) (*models.Comic, error) {
	var comic models.Comic
	query := r.db.Where("slug = ?", slug)
	if onlyPublished {
		query = query.Where("is_published = ?", true)
	}
	if err := query.First(&comic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comic, nil
}

// Create inserts a comic.
func (r *GormComicRepository) Create(comic *models.Comic) error {
	return r.db.Create(comic).Error
}

// Update saves a comic.
func (r *GormComicRepository) Update(comic *models.Comic) error {
	return r.db.Save(comic).Error
}

// Delete soft deletes a comic.
func (r *GormComicRepository) Delete(id uint) error {
	return r.db.Delete(&models.Comic{}, id).Error
}

// Restore clears the soft delete mark.
func (r *GormComicRepository) Restore(id uint) error {
	return r.db.Unscoped().Model(&models.Comic{}).Where("id = ?", id).Update("deleted_at", nil).Error
}

// CountBySlug counts comics holding a slug, optionally excluding one id.
func (r *GormComicRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Unscoped().Model(&models.Comic{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}
