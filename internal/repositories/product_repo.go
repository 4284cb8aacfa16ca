package repositories

import (
	"vastra/internal/models"
)

// ProductRepository defines the interface for product data access.
// DecrementStock must refuse to drive a stock bucket negative; the guard lives
// in the repository so concurrent orders cannot race past a service-side check.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	DecrementStock(productID, size string, quantity int) error
	IncrementStock(productID, size string, quantity int) error
}
