package repositories

import (
	"catalog/internal/models"
)

// ProductFilter describes a conjunctive search over products. Zero-value
// fields are skipped, so a zero filter matches everything.
type ProductFilter struct {
	// Query is matched case-insensitively as a substring of either the
	// product name or its description. Blank means no text filter.
	Query string
	// MinPrice and MaxPrice bound the price inclusively; nil means unbounded.
	MinPrice *float64
	MaxPrice *float64
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	Search(filter ProductFilter) ([]models.Product, error)
}
