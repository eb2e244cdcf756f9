package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/inkfolio-shop/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCounterRepositoryTest(t *testing.T) *GormCounterRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Counter{}); err != nil {
		t.Fatalf("migrate counter failed: %v", err)
	}
	return NewCounterRepository(db)
}

func TestCounterNextIsMonotonic(t *testing.T) {
	repo := setupCounterRepositoryTest(t)

	for want := int64(1); want <= 5; want++ {
		got, err := repo.Next("order_number")
		if err != nil {
			t.Fatalf("next failed: %v", err)
		}
		if got != want {
			t.Fatalf("counter value want %d got %d", want, got)
		}
	}
}

func TestCounterNamesAreIndependent(t *testing.T) {
	repo := setupCounterRepositoryTest(t)

	if _, err := repo.Next("order_number"); err != nil {
		t.Fatalf("next failed: %v", err)
	}
	got, err := repo.Next("invoice_number")
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if got != 1 {
		t.Fatalf("fresh counter want 1 got %d", got)
	}
}

func TestCounterNextRequiresName(t *testing.T) {
	repo := setupCounterRepositoryTest(t)
	if _, err := repo.Next(""); err == nil {
		t.Fatalf("empty counter name should fail")
	}
}
