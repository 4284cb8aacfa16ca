package handlers

import (
	"log"

	"vastra/internal/middleware"
	"vastra/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes. All of them operate on the
// caller's own cart only.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items", h.HandleUpdateItem)
	cartRoutes.Delete("/items", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the caller's cart, creating an empty one on first
// access.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return respondError(c, err, "Could not retrieve cart")
	}
	return c.JSON(cart)
}

// CartItemRequest represents a cart line mutation.
type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// HandleAddItem adds a (product, size) line to the cart, merging quantities.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id, size and a positive quantity are required",
		})
	}

	cart, err := h.service.AddItem(middleware.UserID(c), req.ProductID, req.Size, req.Quantity)
	if err != nil {
		log.Printf("Error adding item to cart: %v", err)
		return respondError(c, err, "Could not add item to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(cart)
}

// HandleUpdateItem sets the quantity of an existing cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id, size and a positive quantity are required",
		})
	}

	cart, err := h.service.UpdateItemQuantity(middleware.UserID(c), req.ProductID, req.Size, req.Quantity)
	if err != nil {
		log.Printf("Error updating cart item: %v", err)
		return respondError(c, err, "Could not update cart item")
	}
	return c.JSON(cart)
}

// RemoveCartItemRequest identifies a cart line to remove.
type RemoveCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
}

// HandleRemoveItem deletes a (product, size) line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	var req RemoveCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id and size are required",
		})
	}

	cart, err := h.service.RemoveItem(middleware.UserID(c), req.ProductID, req.Size)
	if err != nil {
		log.Printf("Error removing cart item: %v", err)
		return respondError(c, err, "Could not remove cart item")
	}
	return c.JSON(cart)
}

// HandleClearCart removes every line from the caller's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	cart, err := h.service.ClearCart(middleware.UserID(c))
	if err != nil {
		log.Printf("Error clearing cart: %v", err)
		return respondError(c, err, "Could not clear cart")
	}
	return c.JSON(cart)
}
