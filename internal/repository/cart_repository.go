package repository

import (
	"errors"
	"time"

	"github.com/inkfolio-shop/internal/models"

	"gorm.io/gorm"
)

// CartRepository is the cart data access interface.
type CartRepository interface {
	GetBySessionToken(token string, withItems bool) (*models.Cart, error)
	GetByID(id uint, withItems bool) (*models.Cart, error)
	Create(cart *models.Cart) error
	Update(cart *models.Cart) error
	Touch(id uint, expiresAt time.Time) error
	UpdateDiscount(id uint, code string, amount models.Money) error
	Delete(id uint) error
	DeleteExpired(now time.Time) (int64, error)

	GetItem(cartID, productID, variantID uint) (*models.CartItem, error)
	GetItemByID(id uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItem(item *models.CartItem) error
	DeleteItem(id uint) error
	ClearItems(cartID uint) error

	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository is the GORM implementation.
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a cart repository.
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormCartRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormCartRepository) preloadItems(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Items.Product").
		Preload("Items.Variant")
}

// GetBySessionToken loads a cart by its session token.
func (r *GormCartRepository) GetBySessionToken(token string, withItems bool) (*models.Cart, error) {
	var cart models.Cart
	query := r.db.Where("session_token = ?", token)
	if withItems {
		query = r.preloadItems(query)
	}
	if err := query.First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetByID loads a cart by id.
func (r *GormCartRepository) GetByID(id uint, withItems bool) (*models.Cart, error) {
	var cart models.Cart
	query := r.db
	if withItems {
		query = r.preloadItems(query)
	}
	if err := query.First(&cart, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Create inserts a cart.
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// Update saves a cart.
func (r *GormCartRepository) Update(cart *models.Cart) error {
	return r.db.Save(cart).Error
}

// Touch extends a cart's expiry without rewriting the whole row.
func (r *GormCartRepository) Touch(id uint, expiresAt time.Time) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", id).Update("expires_at", expiresAt).Error
}

// UpdateDiscount sets or clears the cart's discount without touching its
// preloaded lines.
func (r *GormCartRepository) UpdateDiscount(id uint, code string, amount models.Money) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", id).
		Updates(map[string]interface{}{"discount_code": code, "discount_amount": amount}).Error
}

// Delete removes a cart and its items. Cart rows carry no tombstone, so the
// delete frees the session token for a future cart immediately.
func (r *GormCartRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cart{}, id).Error
	})
}

// DeleteExpired removes all carts whose expiry is in the past.
func (r *GormCartRepository) DeleteExpired(now time.Time) (int64, error) {
	var expired []models.Cart
	if err := r.db.Select("id").Where("expires_at <= ?", now).Find(&expired).Error; err != nil {
		return 0, err
	}
	for _, cart := range expired {
		if err := r.Delete(cart.ID); err != nil {
			return 0, err
		}
	}
	return int64(len(expired)), nil
}

// GetItem loads a cart line by its (cart, product, variant) key.
func (r *GormCartRepository) GetItem(cartID, productID, variantID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.
		Where("cart_id = ? AND product_id = ? AND variant_id = ?", cartID, productID, variantID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetItemByID loads a cart line by id.
func (r *GormCartRepository) GetItemByID(id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Preload("Product").Preload("Variant").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a cart line.
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItem saves a cart line.
func (r *GormCartRepository) UpdateItem(item *models.CartItem) error {
	return r.db.Save(item).Error
}

// DeleteItem removes a cart line, freeing its (cart, product, variant) slot.
func (r *GormCartRepository) DeleteItem(id uint) error {
	return r.db.Delete(&models.CartItem{}, id).Error
}

// ClearItems removes every line of a cart.
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
