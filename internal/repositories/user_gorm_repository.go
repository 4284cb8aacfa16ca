package repositories

import (
	"errors"
	"fmt"

	"vastra/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetAll retrieves all users, oldest account first.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// SetBlocked flips the user's blocked flag.
func (r *GORMUserRepository) SetBlocked(userID string, blocked bool) error {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("is_blocked", blocked)
	if res.Error != nil {
		return fmt.Errorf("failed to set blocked flag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// CreditWallet adds amount to the user's balance and appends the CREDIT entry.
// Balance update and ledger append happen in one transaction so the balance
// always equals the signed sum of the log.
func (r *GORMUserRepository) CreditWallet(userID string, amount float64, description string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
		if res.Error != nil {
			return fmt.Errorf("failed to credit wallet: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrUserNotFound
		}
		entry := models.WalletTransaction{
			UserID:      userID,
			Type:        models.TransactionCredit,
			Amount:      amount,
			Description: description,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to log wallet credit: %w", err)
		}
		return nil
	})
}

// DebitWallet subtracts amount from the user's balance and appends the DEBIT
// entry. The WHERE guard rejects a debit that would drive the balance negative;
// in that case nothing is logged.
func (r *GORMUserRepository) DebitWallet(userID string, amount float64, description string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND wallet_balance >= ?", userID, amount).
			Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
		if res.Error != nil {
			return fmt.Errorf("failed to debit wallet: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&exists).Error; err != nil {
				return fmt.Errorf("failed to debit wallet: %w", err)
			}
			if exists == 0 {
				return models.ErrUserNotFound
			}
			return models.ErrInsufficientBalance
		}
		entry := models.WalletTransaction{
			UserID:      userID,
			Type:        models.TransactionDebit,
			Amount:      amount,
			Description: description,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to log wallet debit: %w", err)
		}
		return nil
	})
}

// WalletTransactions returns the user's ledger entries, oldest first.
func (r *GORMUserRepository) WalletTransactions(userID string) ([]models.WalletTransaction, error) {
	var entries []models.WalletTransaction
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get wallet transactions for user %s: %w", userID, err)
	}
	return entries, nil
}
