package repositories

import (
	"sync"

	"vastra/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string]models.Cart // keyed by cart ID
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
	}
}

func cloneCart(c models.Cart) models.Cart {
	clone := c
	clone.Items = append([]models.CartItem(nil), c.Items...)
	return clone
}

// GetByUserID returns a user's cart.
func (r *MockCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cart := range r.carts {
		if cart.UserID == userID {
			clone := cloneCart(cart)
			return &clone, nil
		}
	}
	return nil, models.ErrCartNotFound
}

// Create adds a new cart.
func (r *MockCartRepository) Create(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	for i := range cart.Items {
		if cart.Items[i].ID == "" {
			cart.Items[i].ID = uuid.New().String()
		}
		cart.Items[i].CartID = cart.ID
	}
	r.carts[cart.ID] = cloneCart(*cart)
	return nil
}

// UpsertItem inserts or overwrites the (product, size) line.
func (r *MockCartRepository) UpsertItem(cartID string, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	item.CartID = cartID
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID && cart.Items[i].Size == item.Size {
			item.ID = cart.Items[i].ID
			cart.Items[i].Quantity = item.Quantity
			cart.Items[i].Price = item.Price
			cart.Items[i].Stock = item.Stock
			r.carts[cartID] = cart
			return nil
		}
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	cart.Items = append(cart.Items, *item)
	r.carts[cartID] = cart
	return nil
}

// UpdateItemQuantity sets the quantity of an existing line.
func (r *MockCartRepository) UpdateItemQuantity(cartID, productID, size string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID && cart.Items[i].Size == size {
			cart.Items[i].Quantity = quantity
			r.carts[cartID] = cart
			return nil
		}
	}
	return models.ErrCartItemNotFound
}

// RemoveItem deletes a (product, size) line.
func (r *MockCartRepository) RemoveItem(cartID, productID, size string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID && cart.Items[i].Size == size {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			r.carts[cartID] = cart
			return nil
		}
	}
	return models.ErrCartItemNotFound
}

// ClearItems removes all lines.
func (r *MockCartRepository) ClearItems(cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	cart.Items = nil
	r.carts[cartID] = cart
	return nil
}

// UpdateTotals stores the recomputed derived totals.
func (r *MockCartRepository) UpdateTotals(cartID string, totalPrice float64, totalQuantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	cart.TotalPrice = totalPrice
	cart.TotalQuantity = totalQuantity
	r.carts[cartID] = cart
	return nil
}
