// Package payments bridges the order workflow to an external payment
// provider. The core only needs three operations: create a provider-side
// order for an amount, fetch a payment's status, and verify the signature the
// client echoes back after paying. COD and wallet orders never touch this
// package.
package payments

import "context"

// StatusCaptured is the only provider payment status accepted as proof of
// payment.
const StatusCaptured = "captured"

// PaymentIntent is the provider-side order reference returned at creation.
type PaymentIntent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units (paise for INR)
	Currency string `json:"currency"`
}

// Provider is the contract the order workflow depends on.
type Provider interface {
	// CreateOrder registers a payment intent for the given amount (major
	// units; converted to minor units on the wire) and returns the provider
	// reference to hand to the client.
	CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*PaymentIntent, error)
	// FetchPaymentStatus returns the provider's status string for a payment.
	FetchPaymentStatus(ctx context.Context, paymentID string) (string, error)
	// VerifySignature checks the client-supplied signature over
	// "orderRef|paymentID". It returns models.ErrInvalidSignature on mismatch.
	VerifySignature(orderRef, paymentID, signature string) error
}
