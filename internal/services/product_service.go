package services

import (
	"vastra/internal/models"
	"vastra/internal/repositories"
)

// ProductService handles business logic related to products and their
// per-size stock buckets.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product, replacing its size buckets.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct soft-deletes a product by its ID. Existing order snapshots
// keep referring to it; it only disappears from the catalog.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
