package models

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by the services. Handlers map these to HTTP statuses
// with errors.Is/errors.As; services never format responses themselves.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("item not found in order")
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("item not found in cart")
	ErrSizeNotFound      = errors.New("size not available for product")
	ErrCategoryNotFound  = errors.New("category not found")

	ErrUserBlocked = errors.New("user account is blocked")

	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrAlreadyCancelled        = fmt.Errorf("item is already cancelled: %w", ErrInvalidStatusTransition)

	ErrInvalidSignature   = errors.New("payment signature mismatch")
	ErrPaymentNotCaptured = errors.New("payment not captured")
	ErrNoRefundableItems  = errors.New("order has no refundable items")

	ErrInvalidOrderTotal = errors.New("order total after discount must be positive")
)

// InsufficientStockError reports which size bucket could not cover a requested
// quantity during order placement.
type InsufficientStockError struct {
	ProductID string
	Size      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for size %s (requested: %d, available: %d)",
		e.Size, e.Requested, e.Available)
}

// PaymentProviderError wraps a failure reported by the external payment provider.
type PaymentProviderError struct {
	Op  string
	Err error
}

func (e *PaymentProviderError) Error() string {
	return fmt.Sprintf("payment provider: %s: %v", e.Op, e.Err)
}

func (e *PaymentProviderError) Unwrap() error { return e.Err }
