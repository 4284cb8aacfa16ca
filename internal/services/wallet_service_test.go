package services_test

import (
	"testing"

	"vastra/internal/models"
	"vastra/internal/repositories"
	"vastra/internal/services"

	"github.com/stretchr/testify/assert"
)

func newWalletFixture() (*services.WalletService, *repositories.MockUserRepository) {
	users := repositories.NewMockUserRepository()
	users.Create(&models.User{ID: "user-1", Username: "asha", Email: "asha@example.com", WalletBalance: 50.0})
	return services.NewWalletService(users), users
}

func TestWalletService_Credit(t *testing.T) {
	service, _ := newWalletFixture()

	err := service.Credit("user-1", 25.0, "Promo credit")
	assert.NoError(t, err)

	details, err := service.Details("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 75.0, details.Balance)
	assert.Len(t, details.Transactions, 1)
	assert.Equal(t, models.TransactionCredit, details.Transactions[0].Type)
	assert.Equal(t, "Promo credit", details.Transactions[0].Description)
}

func TestWalletService_Debit_InsufficientBalance(t *testing.T) {
	service, _ := newWalletFixture()

	err := service.Debit("user-1", 100.0, "")
	assert.ErrorIs(t, err, models.ErrInsufficientBalance)

	// The rejected debit leaves balance and ledger untouched.
	details, err := service.Details("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 50.0, details.Balance)
	assert.Empty(t, details.Transactions)
}

func TestWalletService_RejectsNonPositiveAmounts(t *testing.T) {
	service, _ := newWalletFixture()

	assert.Error(t, service.Credit("user-1", 0, ""))
	assert.Error(t, service.Credit("user-1", -5, ""))
	assert.Error(t, service.Debit("user-1", 0, ""))
	assert.Error(t, service.Debit("user-1", -5, ""))
}

func TestWalletService_BalanceMatchesLedger(t *testing.T) {
	service, _ := newWalletFixture()

	assert.NoError(t, service.Credit("user-1", 100.0, ""))
	assert.NoError(t, service.Debit("user-1", 30.0, ""))
	assert.NoError(t, service.Credit("user-1", 10.0, ""))

	details, err := service.Details("user-1")
	assert.NoError(t, err)

	// Balance must equal the starting balance plus the signed sum of the log.
	sum := 50.0
	for _, txn := range details.Transactions {
		switch txn.Type {
		case models.TransactionCredit:
			sum += txn.Amount
		case models.TransactionDebit:
			sum -= txn.Amount
		}
	}
	assert.Equal(t, sum, details.Balance)
	assert.Equal(t, 130.0, details.Balance)
}

func TestWalletService_UnknownUser(t *testing.T) {
	service, _ := newWalletFixture()

	assert.ErrorIs(t, service.Credit("ghost", 10.0, ""), models.ErrUserNotFound)
	_, err := service.Details("ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
