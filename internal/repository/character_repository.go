package repository

import (
	"errors"
	"strings"

	"github.com/inkfolio-shop/internal/models"

	"gorm.io/gorm"
)

// CharacterRepository is the character data access interface.
type CharacterRepository interface {
	List(filter CharacterListFilter) ([]models.Character, int64, error)
	GetByID(id uint) (*models.Character, error)
	GetBySlug(slug string, onlyPublished bool) (*models.Character, error)
	Create(character *models.Character) error
	Update(character *models.Character) error
	Delete(id uint) error
	Restore(id uint) error
	CountBySlug(slug string, excludeID uint) (int64, error)
	WithTx(tx *gorm.DB) CharacterRepository
}

// GormCharacterRepository is the GORM implementation.
type GormCharacterRepository struct {
	db *gorm.DB
}

// NewCharacterRepository creates a character repository.
func NewCharacterRepository(db *gorm.DB) *GormCharacterRepository {
	return &GormCharacterRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCharacterRepository) WithTx(tx *gorm.DB) CharacterRepository {
	if tx == nil {
		return r
	}
	return &GormCharacterRepository{db: tx}
}

// List returns characters in display order.
func (r *GormCharacterRepository) List(filter CharacterListFilter) ([]models.Character, int64, error) {
	var characters []models.Character

	query := r.db.Model(&models.Character{})
	if filter.WithDeleted {
		query = query.Unscoped()
	}
	if filter.OnlyPublished {
		query = query.Where("is_published = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order DESC, id ASC").Find(&characters).Error; err != nil {
		return nil, 0, err
	}

	return characters, total, nil
}

// GetByID loads a character by id.
func (r *GormCharacterRepository) GetByID(id uint) (*models.Character, error) {
	var character models.Character
	if err := r.db.First(&character, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &character, nil
}

// GetBySlug loads a character by slug.
func (r *GormCharacterRepository) GetBySlug(slug string, onlyPublished bool) (*models.Character, error) {
	var character models.Character
	query := r.db.Where("slug = ?", slug)
	if onlyPublished {
		query = query.Where("is_published = ?", true)
	}
	if err := query.First(&character).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &character, nil
}

// Create inserts a character.
func (r *GormCharacterRepository) Create(character *models.Character) error {
	return r.db.Create(character).Error
}

// Update saves a character.
func (r *GormCharacterRepository) Update(character *models.Character) error {
	return r.db.Save(character).Error
}

// Delete soft deletes a character.
func (r *GormCharacterRepository) Delete(id uint) error {
	return r.db.Delete(&models.Character{}, id).Error
}

// Restore clears the soft delete mark.
func (r *GormCharacterRepository) Restore(id uint) error {
	return r.db.Unscoped().Model(&models.Character{}).Where("id = ?", id).Update("deleted_at", nil).Error
}

// CountBySlug counts characters holding a slug, optionally excluding one id.
func (r *GormCharacterRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Unscoped().Model(&models.Character{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}
