package models

import "time"

// Address is the delivery address snapshot captured at checkout.
type Address struct {
	Fullname string `json:"fullname"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

// OrderItem is a single line of an order. Product, price and size are
// immutable snapshots taken at checkout; only TrackingStatus changes after
// creation, and it is the unit of cancellation and return.
type OrderItem struct {
	ID             string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID        string         `json:"-" gorm:"type:varchar(36);index"`
	ProductID      string         `json:"product_id" gorm:"type:varchar(36)" validate:"required"`
	Quantity       int            `json:"quantity" validate:"required,gte=1"`
	Price          float64        `json:"price"`
	Size           string         `json:"size" gorm:"type:varchar(10)" validate:"required"`
	TrackingStatus TrackingStatus `json:"tracking_status" gorm:"type:varchar(20)"`
}

// Order is created once at checkout and mutated only through status
// transitions; cancellation and return are status changes, never deletions.
type Order struct {
	ID             string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string         `json:"user_id" gorm:"type:varchar(36);index"`
	Items          []OrderItem    `json:"items" gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	TotalPrice     float64        `json:"total_price"`
	TotalQuantity  int            `json:"total_quantity"`
	Discount       float64        `json:"discount"`
	FinalPrice     float64        `json:"final_price"`
	Status         OrderStatus    `json:"status" gorm:"type:varchar(20)"`
	PaymentMethod  PaymentMethod  `json:"payment_method" gorm:"type:varchar(20)"`
	PaymentStatus  PaymentStatus  `json:"payment_status" gorm:"type:varchar(20)"`
	PaymentRef     string         `json:"payment_ref,omitempty" gorm:"type:varchar(64)"`
	PaymentID      string         `json:"payment_id,omitempty" gorm:"type:varchar(64)"`
	ReturnApproval ReturnApproval `json:"return_approval,omitempty" gorm:"type:varchar(20)"`
	Refunded       bool           `json:"refunded"`
	RefundAmount   float64        `json:"refund_amount"`
	Address        Address        `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Item returns the order item with the given id, or nil.
func (o *Order) Item(itemID string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// ItemByProduct returns the order item referencing the given product, or nil.
// The admin tracking-status override addresses items by product id.
func (o *Order) ItemByProduct(productID string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return &o.Items[i]
		}
	}
	return nil
}
