package repositories

import (
	"sync"
	"time"

	"vastra/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

func cloneUser(u models.User) models.User {
	clone := u
	clone.WalletTransactions = append([]models.WalletTransaction(nil), u.WalletTransactions...)
	return clone
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	r.users[user.ID] = cloneUser(*user)
	return nil
}

// GetAll returns all users.
func (r *MockUserRepository) GetAll() ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		userList = append(userList, cloneUser(user))
	}
	return userList, nil
}

// GetByUsername returns a user by username.
func (r *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			clone := cloneUser(user)
			return &clone, nil
		}
	}
	return nil, models.ErrUserNotFound
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := cloneUser(user)
			return &clone, nil
		}
	}
	return nil, models.ErrUserNotFound
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	clone := cloneUser(user)
	return &clone, nil
}

// SetBlocked flips the user's blocked flag.
func (r *MockUserRepository) SetBlocked(userID string, blocked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	user.IsBlocked = blocked
	r.users[userID] = user
	return nil
}

// CreditWallet adds amount to the balance and appends the CREDIT entry.
func (r *MockUserRepository) CreditWallet(userID string, amount float64, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	user.WalletBalance += amount
	user.WalletTransactions = append(user.WalletTransactions, models.WalletTransaction{
		ID:          uint(len(user.WalletTransactions) + 1),
		UserID:      userID,
		Type:        models.TransactionCredit,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	})
	r.users[userID] = user
	return nil
}

// DebitWallet subtracts amount from the balance, rejecting a debit that would
// go negative without logging anything.
func (r *MockUserRepository) DebitWallet(userID string, amount float64, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	if user.WalletBalance < amount {
		return models.ErrInsufficientBalance
	}
	user.WalletBalance -= amount
	user.WalletTransactions = append(user.WalletTransactions, models.WalletTransaction{
		ID:          uint(len(user.WalletTransactions) + 1),
		UserID:      userID,
		Type:        models.TransactionDebit,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	})
	r.users[userID] = user
	return nil
}

// WalletTransactions returns the user's ledger entries.
func (r *MockUserRepository) WalletTransactions(userID string) ([]models.WalletTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return append([]models.WalletTransaction(nil), user.WalletTransactions...), nil
}
