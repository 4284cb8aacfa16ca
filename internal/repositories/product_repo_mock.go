package repositories

import (
	"sync"

	"vastra/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

func cloneProduct(p models.Product) models.Product {
	clone := p
	clone.Sizes = append([]models.SizeStock(nil), p.Sizes...)
	return clone
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, cloneProduct(p))
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	clone := cloneProduct(product)
	return &clone, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = cloneProduct(*product)
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return models.ErrProductNotFound
	}
	r.products[product.ID] = cloneProduct(*product)
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return models.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// DecrementStock subtracts quantity from a size bucket, refusing to go negative.
func (r *MockProductRepository) DecrementStock(productID, size string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return models.ErrProductNotFound
	}
	bucket := product.SizeBucket(size)
	if bucket == nil {
		return models.ErrSizeNotFound
	}
	if bucket.Stock < quantity {
		return &models.InsufficientStockError{
			ProductID: productID,
			Size:      size,
			Requested: quantity,
			Available: bucket.Stock,
		}
	}
	bucket.Stock -= quantity
	r.products[productID] = product
	return nil
}

// IncrementStock restores quantity to a size bucket.
func (r *MockProductRepository) IncrementStock(productID, size string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return models.ErrProductNotFound
	}
	bucket := product.SizeBucket(size)
	if bucket == nil {
		return models.ErrSizeNotFound
	}
	bucket.Stock += quantity
	r.products[productID] = product
	return nil
}
