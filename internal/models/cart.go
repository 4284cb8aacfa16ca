package models

import "time"

// CartItem is a line in a user's cart. Price and Stock are snapshots captured
// when the item was added; they do not track later product edits.
type CartItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string  `json:"-" gorm:"type:varchar(36);uniqueIndex:idx_cart_product_size"`
	ProductID string  `json:"product_id" gorm:"type:varchar(36);uniqueIndex:idx_cart_product_size" validate:"required"`
	Size      string  `json:"size" gorm:"type:varchar(10);uniqueIndex:idx_cart_product_size" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

// Cart holds a user's pending line items. At most one item exists per
// (product, size); totals are derived and recomputed on every mutation.
type Cart struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string     `json:"user_id" gorm:"type:varchar(36);uniqueIndex"`
	Items         []CartItem `json:"items" gorm:"foreignKey:CartID;references:ID;constraint:OnDelete:CASCADE"`
	TotalPrice    float64    `json:"total_price"`
	TotalQuantity int        `json:"total_quantity"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// RecomputeTotals rederives the cart totals from its items.
func (c *Cart) RecomputeTotals() {
	var price float64
	var quantity int
	for _, item := range c.Items {
		price += item.Price * float64(item.Quantity)
		quantity += item.Quantity
	}
	c.TotalPrice = price
	c.TotalQuantity = quantity
}
