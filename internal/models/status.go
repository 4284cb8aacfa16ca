package models

import (
	"fmt"
	"strings"
)

// TrackingStatus is the lifecycle state of a single order item.
type TrackingStatus string

const (
	TrackingPending         TrackingStatus = "PENDING"
	TrackingShipped         TrackingStatus = "SHIPPED"
	TrackingDelivered       TrackingStatus = "DELIVERED"
	TrackingCancelled       TrackingStatus = "CANCELLED"
	TrackingReturnRequested TrackingStatus = "RETURN_REQUESTED"
	TrackingReturnApproved  TrackingStatus = "RETURN_APPROVED"
	TrackingReturnRejected  TrackingStatus = "RETURN_REJECTED"
	TrackingReturned        TrackingStatus = "RETURNED"
)

// ParseTrackingStatus normalizes and validates a tracking status received at the
// API boundary. Unknown values are rejected rather than stored.
func ParseTrackingStatus(s string) (TrackingStatus, error) {
	status := TrackingStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case TrackingPending, TrackingShipped, TrackingDelivered, TrackingCancelled,
		TrackingReturnRequested, TrackingReturnApproved, TrackingReturnRejected, TrackingReturned:
		return status, nil
	}
	return "", fmt.Errorf("unknown tracking status %q", s)
}

// ParseCoreTrackingStatus accepts only the four statuses an admin may set
// directly, bypassing the return request/approve flow.
func ParseCoreTrackingStatus(s string) (TrackingStatus, error) {
	status := TrackingStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case TrackingPending, TrackingShipped, TrackingDelivered, TrackingCancelled:
		return status, nil
	}
	return "", fmt.Errorf("unknown tracking status %q", s)
}

// OrderStatus is the aggregate order state derived from the item tracking statuses.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderReturned  OrderStatus = "RETURNED"
)

// PaymentMethod selects how an order is paid.
type PaymentMethod string

const (
	PaymentMethodCOD      PaymentMethod = "COD"
	PaymentMethodWallet   PaymentMethod = "WALLET"
	PaymentMethodRazorpay PaymentMethod = "RAZORPAY"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	method := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	switch method {
	case PaymentMethodCOD, PaymentMethodWallet, PaymentMethodRazorpay:
		return method, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// PaymentStatus tracks whether funds for an order have been captured.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// ReturnApproval is the order-level flag driven by the return request/approve flow.
type ReturnApproval string

const (
	ReturnApprovalNone     ReturnApproval = ""
	ReturnApprovalPending  ReturnApproval = "PENDING"
	ReturnApprovalApproved ReturnApproval = "APPROVED"
	ReturnApprovalRejected ReturnApproval = "REJECTED"
)

// TransactionType tags a wallet ledger entry.
type TransactionType string

const (
	TransactionCredit TransactionType = "CREDIT"
	TransactionDebit  TransactionType = "DEBIT"
)
