package models

import (
	"time"

	"gorm.io/gorm"
)

// SizeStock is the per-size inventory counter for a product.
type SizeStock struct {
	ID        uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	ProductID string `json:"-" gorm:"type:varchar(36);uniqueIndex:idx_product_size"`
	Size      string `json:"size" gorm:"type:varchar(10);uniqueIndex:idx_product_size" validate:"required"`
	Stock     int    `json:"stock" validate:"gte=0"`
}

// Product represents a catalog product. Inventory lives in the per-size stock
// buckets; the order workflow is the only writer of Stock outside admin edits.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string         `json:"name" validate:"required,min=3,max=100"`
	Category    string         `json:"category" validate:"omitempty,max=100"`
	Description string         `json:"description" validate:"omitempty,max=500"`
	Price       float64        `json:"price" validate:"required,gt=0"`
	Sizes       []SizeStock    `json:"sizes" gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:CASCADE" validate:"required,min=1,dive"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// SizeBucket returns the stock bucket for the given size, or nil if the
// product does not carry that size.
func (p *Product) SizeBucket(size string) *SizeStock {
	for i := range p.Sizes {
		if p.Sizes[i].Size == size {
			return &p.Sizes[i]
		}
	}
	return nil
}
