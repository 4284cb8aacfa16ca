package handlers

import (
	"log"

	"vastra/internal/middleware"
	"vastra/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// WalletHandler handles HTTP requests for the wallet ledger.
type WalletHandler struct {
	service  *services.WalletService
	validate *validator.Validate
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(service *services.WalletService) *WalletHandler {
	return &WalletHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the wallet route for the authenticated user.
func (h *WalletHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/wallet", h.HandleGetWallet)
}

// RegisterAdminRoutes registers the manual wallet adjustment routes.
func (h *WalletHandler) RegisterAdminRoutes(router fiber.Router) {
	walletRoutes := router.Group("/wallet")
	walletRoutes.Post("/credit", h.HandleCredit)
	walletRoutes.Post("/debit", h.HandleDebit)
}

// HandleGetWallet returns the caller's balance and transaction history.
func (h *WalletHandler) HandleGetWallet(c *fiber.Ctx) error {
	details, err := h.service.Details(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting wallet details: %v", err)
		return respondError(c, err, "Could not retrieve wallet")
	}
	return c.JSON(details)
}

// WalletAdjustmentRequest represents a manual credit or debit.
type WalletAdjustmentRequest struct {
	UserID      string  `json:"user_id" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
}

// HandleCredit adds funds to a user's wallet.
func (h *WalletHandler) HandleCredit(c *fiber.Ctx) error {
	var req WalletAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "user_id and a positive amount are required",
		})
	}

	if err := h.service.Credit(req.UserID, req.Amount, req.Description); err != nil {
		log.Printf("Error crediting wallet for user %s: %v", req.UserID, err)
		return respondError(c, err, "Could not credit wallet")
	}
	return c.JSON(fiber.Map{
		"message": "Wallet credited successfully",
	})
}

// HandleDebit removes funds from a user's wallet.
func (h *WalletHandler) HandleDebit(c *fiber.Ctx) error {
	var req WalletAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "user_id and a positive amount are required",
		})
	}

	if err := h.service.Debit(req.UserID, req.Amount, req.Description); err != nil {
		log.Printf("Error debiting wallet for user %s: %v", req.UserID, err)
		return respondError(c, err, "Could not debit wallet")
	}
	return c.JSON(fiber.Map{
		"message": "Wallet debited successfully",
	})
}
