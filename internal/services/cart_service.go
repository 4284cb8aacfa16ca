package services

import (
	"errors"
	"fmt"

	"vastra/internal/models"
	"vastra/internal/repositories"
)

// CartService handles business logic for per-user carts. A cart holds at
// most one line per (product, size); totals are rederived after every
// mutation.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if errors.Is(err, models.ErrCartNotFound) {
		cart = &models.Cart{UserID: userID}
		if err := s.cartRepo.Create(cart); err != nil {
			return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, err)
		}
		return cart, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds quantity of (product, size) to the cart, merging with an
// existing line if one exists. Price and stock are captured from the product
// at add time.
func (s *CartService) AddItem(userID, productID, size string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	bucket := product.SizeBucket(size)
	if bucket == nil {
		return nil, models.ErrSizeNotFound
	}

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	for _, item := range cart.Items {
		if item.ProductID == productID && item.Size == size {
			newQuantity += item.Quantity
			break
		}
	}

	item := &models.CartItem{
		ProductID: productID,
		Size:      size,
		Quantity:  newQuantity,
		Price:     product.Price,
		Stock:     bucket.Stock,
	}
	if err := s.cartRepo.UpsertItem(cart.ID, item); err != nil {
		return nil, err
	}
	return s.refresh(userID, cart.ID)
}

// UpdateItemQuantity sets the quantity of an existing cart line.
func (s *CartService) UpdateItemQuantity(userID, productID, size string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateItemQuantity(cart.ID, productID, size, quantity); err != nil {
		return nil, err
	}
	return s.refresh(userID, cart.ID)
}

// RemoveItem deletes a (product, size) line from the cart.
func (s *CartService) RemoveItem(userID, productID, size string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.RemoveItem(cart.ID, productID, size); err != nil {
		return nil, err
	}
	return s.refresh(userID, cart.ID)
}

// ClearCart removes every line from the user's cart.
func (s *CartService) ClearCart(userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return nil, err
	}
	return s.refresh(userID, cart.ID)
}

// refresh reloads the cart, rederives its totals and persists them.
func (s *CartService) refresh(userID, cartID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	cart.RecomputeTotals()
	if err := s.cartRepo.UpdateTotals(cartID, cart.TotalPrice, cart.TotalQuantity); err != nil {
		return nil, err
	}
	return cart, nil
}
