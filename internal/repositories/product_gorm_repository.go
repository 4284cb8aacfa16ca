package repositories

import (
	"errors"
	"fmt"

	"vastra/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products (soft-deleted ones excluded) with their size buckets.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Sizes").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID with its size buckets.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Sizes").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product, replacing its size buckets.
func (r *GORMProductRepository) Update(product *models.Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Omit("Sizes").Save(product)
		if res.Error != nil {
			return fmt.Errorf("failed to update product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrProductNotFound
		}
		if product.Sizes != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.SizeStock{}).Error; err != nil {
				return fmt.Errorf("failed to replace size buckets: %w", err)
			}
			for i := range product.Sizes {
				product.Sizes[i].ID = 0
				product.Sizes[i].ProductID = product.ID
			}
			if err := tx.Create(&product.Sizes).Error; err != nil {
				return fmt.Errorf("failed to replace size buckets: %w", err)
			}
		}
		return nil
	})
}

// Delete soft-deletes a product by its ID.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

// DecrementStock atomically subtracts quantity from a size bucket. The WHERE
// guard makes the bucket the unit of contention: two concurrent orders cannot
// both take the last unit.
func (r *GORMProductRepository) DecrementStock(productID, size string, quantity int) error {
	res := r.db.Model(&models.SizeStock{}).
		Where("product_id = ? AND size = ? AND stock >= ?", productID, size, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var bucket models.SizeStock
		if err := r.db.First(&bucket, "product_id = ? AND size = ?", productID, size).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrSizeNotFound
			}
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		return &models.InsufficientStockError{
			ProductID: productID,
			Size:      size,
			Requested: quantity,
			Available: bucket.Stock,
		}
	}
	return nil
}

// IncrementStock restores quantity to a size bucket (cancellation/return path).
func (r *GORMProductRepository) IncrementStock(productID, size string, quantity int) error {
	res := r.db.Model(&models.SizeStock{}).
		Where("product_id = ? AND size = ?", productID, size).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to increment stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrSizeNotFound
	}
	return nil
}
