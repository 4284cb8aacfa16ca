package models_test

import (
	"testing"

	"vastra/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseTrackingStatus(t *testing.T) {
	// Input is normalized before matching.
	status, err := models.ParseTrackingStatus("  delivered ")
	assert.NoError(t, err)
	assert.Equal(t, models.TrackingDelivered, status)

	status, err = models.ParseTrackingStatus("return_requested")
	assert.NoError(t, err)
	assert.Equal(t, models.TrackingReturnRequested, status)

	for _, input := range []string{"", "UNKNOWN", "IN_TRANSIT", "DELIVERD"} {
		_, err := models.ParseTrackingStatus(input)
		assert.Error(t, err, "input %q must be rejected", input)
	}
}

func TestParseCoreTrackingStatus(t *testing.T) {
	for _, input := range []string{"PENDING", "shipped", "Delivered", "CANCELLED"} {
		_, err := models.ParseCoreTrackingStatus(input)
		assert.NoError(t, err, "input %q is a core status", input)
	}

	// The return flow statuses are not settable directly.
	for _, input := range []string{"RETURN_REQUESTED", "RETURN_APPROVED", "RETURN_REJECTED", "RETURNED"} {
		_, err := models.ParseCoreTrackingStatus(input)
		assert.Error(t, err, "input %q must go through the return flow", input)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	method, err := models.ParsePaymentMethod("wallet")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentMethodWallet, method)

	_, err = models.ParsePaymentMethod("CHEQUE")
	assert.Error(t, err)
}
