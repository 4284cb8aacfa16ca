package models

import "time"

// User roles recognized by the auth middleware.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// WalletTransaction is one append-only entry of a user's wallet ledger.
// Entries are never updated or deleted; the balance must always equal the
// signed sum of all entries.
type WalletTransaction struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string          `json:"-" gorm:"type:varchar(36);index"`
	Type        TransactionType `json:"type" gorm:"type:varchar(10)"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// User represents a user of the store, including their wallet ledger.
type User struct {
	ID                 string              `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username           string              `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email              string              `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password           string              `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role               string              `json:"role" gorm:"type:varchar(10)"`
	IsBlocked          bool                `json:"is_blocked"`
	WalletBalance      float64             `json:"wallet_balance"`
	WalletTransactions []WalletTransaction `json:"wallet_transactions,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}
