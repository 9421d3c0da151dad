package taxcat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog is the read-only view of the tax-category registry. The engine
// takes it as an interface so tests (and a future versioned catalog) can
// swap the backing store.
type Catalog interface {
	// FindActive returns every currently-effective category in stable
	// (code) order.
	FindActive() ([]TaxCategory, error)
	FindByID(id uuid.UUID) (*TaxCategory, error)
	FindByCode(code string) (*TaxCategory, error)
}

// GormCatalog reads the catalog from the relational store.
type GormCatalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) FindActive() ([]TaxCategory, error) {
	var cats []TaxCategory
	today := time.Now()
	err := c.db.
		Where("is_active = ?", true).
		Where("effective_date <= ?", today).
		Where("expiration_date IS NULL OR expiration_date >= ?", today).
		Order("code ASC").
		Find(&cats).Error
	if err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *GormCatalog) FindByID(id uuid.UUID) (*TaxCategory, error) {
	var cat TaxCategory
	if err := c.db.First(&cat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *GormCatalog) FindByCode(code string) (*TaxCategory, error) {
	var cat TaxCategory
	if err := c.db.First(&cat, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}
