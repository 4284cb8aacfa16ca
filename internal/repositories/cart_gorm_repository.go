package repositories

import (
	"errors"
	"fmt"

	"vastra/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUserID retrieves a user's cart with its items.
func (r *GORMCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Preload("Items").First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// Create persists a new, usually empty, cart.
func (r *GORMCartRepository) Create(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	for i := range cart.Items {
		if cart.Items[i].ID == "" {
			cart.Items[i].ID = uuid.New().String()
		}
		cart.Items[i].CartID = cart.ID
	}
	if err := r.db.Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// UpsertItem inserts the item or, if the (product, size) line already exists,
// overwrites its quantity and snapshots.
func (r *GORMCartRepository) UpsertItem(cartID string, item *models.CartItem) error {
	item.CartID = cartID
	var existing models.CartItem
	err := r.db.First(&existing, "cart_id = ? AND product_id = ? AND size = ?",
		cartID, item.ProductID, item.Size).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		if err := r.db.Create(item).Error; err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}
	item.ID = existing.ID
	if err := r.db.Model(&existing).Updates(map[string]interface{}{
		"quantity": item.Quantity,
		"price":    item.Price,
		"stock":    item.Stock,
	}).Error; err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

// UpdateItemQuantity sets the quantity of an existing line.
func (r *GORMCartRepository) UpdateItemQuantity(cartID, productID, size string, quantity int) error {
	res := r.db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ? AND size = ?", cartID, productID, size).
		Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrCartItemNotFound
	}
	return nil
}

// RemoveItem deletes a single (product, size) line from the cart.
func (r *GORMCartRepository) RemoveItem(cartID, productID, size string) error {
	res := r.db.Where("cart_id = ? AND product_id = ? AND size = ?", cartID, productID, size).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrCartItemNotFound
	}
	return nil
}

// ClearItems deletes all lines from the cart.
func (r *GORMCartRepository) ClearItems(cartID string) error {
	if err := r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// UpdateTotals stores the recomputed derived totals.
func (r *GORMCartRepository) UpdateTotals(cartID string, totalPrice float64, totalQuantity int) error {
	res := r.db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"total_price":    totalPrice,
		"total_quantity": totalQuantity,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update cart totals: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrCartNotFound
	}
	return nil
}
