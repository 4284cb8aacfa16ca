package repositories

import "vastra/internal/models"

// CartRepository defines the interface for cart data access. A user has at
// most one cart, and a cart has at most one item per (product, size).
type CartRepository interface {
	GetByUserID(userID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	UpsertItem(cartID string, item *models.CartItem) error
	UpdateItemQuantity(cartID, productID, size string, quantity int) error
	RemoveItem(cartID, productID, size string) error
	ClearItems(cartID string) error
	UpdateTotals(cartID string, totalPrice float64, totalQuantity int) error
}
