package services

import (
	"fmt"

	"vastra/internal/models"
	"vastra/internal/repositories"
)

// WalletDetails is the wallet view returned to the owner: current balance
// plus the full transaction history.
type WalletDetails struct {
	Balance      float64                    `json:"balance"`
	Transactions []models.WalletTransaction `json:"transactions"`
}

// WalletService handles business logic for the per-user wallet ledger.
type WalletService struct {
	userRepo repositories.UserRepository
}

// NewWalletService creates a new WalletService.
func NewWalletService(userRepo repositories.UserRepository) *WalletService {
	return &WalletService{
		userRepo: userRepo,
	}
}

// Credit adds amount to the user's wallet and logs a CREDIT entry.
func (s *WalletService) Credit(userID string, amount float64, description string) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %v", amount)
	}
	if description == "" {
		description = "Wallet credit"
	}
	return s.userRepo.CreditWallet(userID, amount, description)
}

// Debit removes amount from the user's wallet and logs a DEBIT entry. It
// fails with models.ErrInsufficientBalance when the balance cannot cover the
// amount, leaving balance and log untouched.
func (s *WalletService) Debit(userID string, amount float64, description string) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %v", amount)
	}
	if description == "" {
		description = "Wallet debit"
	}
	return s.userRepo.DebitWallet(userID, amount, description)
}

// Details returns the user's balance and transaction history.
func (s *WalletService) Details(userID string) (*WalletDetails, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.userRepo.WalletTransactions(userID)
	if err != nil {
		return nil, err
	}
	return &WalletDetails{
		Balance:      user.WalletBalance,
		Transactions: transactions,
	}, nil
}
