package repository

import (
	"errors"

	"github.com/inkfolio-shop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepository hands out monotonically increasing sequence values.
type CounterRepository interface {
	Next(name string) (int64, error)
	WithTx(tx *gorm.DB) CounterRepository
}

// GormCounterRepository is the GORM implementation.
type GormCounterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a counter repository.
func NewCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCounterRepository) WithTx(tx *gorm.DB) CounterRepository {
	if tx == nil {
		return r
	}
	return &GormCounterRepository{db: tx}
}

// Next increments the named counter and returns the new value. The increment
// is a single UPDATE so concurrent callers never observe the same value; run
// it inside the caller's transaction to tie the value to the caller's insert.
func (r *GormCounterRepository) Next(name string) (int64, error) {
	if name == "" {
		return 0, errors.New("counter name required")
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&models.Counter{Name: name, Value: 0}).Error
	if err != nil {
		return 0, err
	}

	result := r.db.Model(&models.Counter{}).
		Where("name = ?", name).
		UpdateColumn("value", gorm.Expr("value + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}

	var counter models.Counter
	if err := r.db.Where("name = ?", name).First(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}
