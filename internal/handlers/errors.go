package handlers

import (
	"errors"

	"vastra/internal/models"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps the service failure taxonomy to HTTP statuses. The
// services only produce typed failures; formatting happens here and nowhere
// else.
func statusForError(err error) int {
	var stockErr *models.InsufficientStockError
	var providerErr *models.PaymentProviderError
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrOrderItemNotFound),
		errors.Is(err, models.ErrCartNotFound),
		errors.Is(err, models.ErrCartItemNotFound),
		errors.Is(err, models.ErrSizeNotFound),
		errors.Is(err, models.ErrCategoryNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrUserBlocked):
		return fiber.StatusForbidden
	case errors.As(err, &stockErr),
		errors.Is(err, models.ErrInsufficientBalance),
		errors.Is(err, models.ErrInvalidStatusTransition),
		errors.Is(err, models.ErrInvalidSignature),
		errors.Is(err, models.ErrPaymentNotCaptured),
		errors.Is(err, models.ErrNoRefundableItems),
		errors.Is(err, models.ErrInvalidOrderTotal):
		return fiber.StatusBadRequest
	case errors.As(err, &providerErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error, message string) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
