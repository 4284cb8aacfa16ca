package repositories

import (
	"vastra/internal/models"
)

// OrderRepository defines the interface for order data access.
// Orders are never deleted; cancellation and return are status changes saved
// through Update.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
}
