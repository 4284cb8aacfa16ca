package repositories

import "vastra/internal/models"

// UserRepository defines the interface for user data access, including the
// wallet ledger embedded in the user record. CreditWallet and DebitWallet
// update the balance and append the matching ledger entry as one unit;
// DebitWallet fails with models.ErrInsufficientBalance rather than letting the
// balance go negative, and logs nothing in that case.
type UserRepository interface {
	Create(user *models.User) error
	GetAll() ([]models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	SetBlocked(userID string, blocked bool) error
	CreditWallet(userID string, amount float64, description string) error
	DebitWallet(userID string, amount float64, description string) error
	WalletTransactions(userID string) ([]models.WalletTransaction, error)
}
