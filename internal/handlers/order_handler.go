package handlers

import (
	"fmt"
	"log"

	"vastra/internal/middleware"
	"vastra/internal/models"
	"vastra/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders: checkout, payment
// confirmation, per-item cancellation, the return flow and refunds.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the buyer-facing order routes. Callers must be
// authenticated; every route only reaches the caller's own orders.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", h.HandleGetOrderHistory)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/payment", h.HandleConfirmPayment)
	orderRoutes.Post("/:id/items/:itemId/cancel", h.HandleCancelItem)
	orderRoutes.Post("/:id/items/:itemId/return", h.HandleRequestReturn)
}

// RegisterAdminRoutes registers the admin order routes: full listing, the
// coarse tracking override, return decisions and refunds.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetAllOrders)
	orderRoutes.Patch("/:id/tracking", h.HandleChangeTracking)
	orderRoutes.Post("/:id/items/:itemId/return-decision", h.HandleReturnDecision)
	orderRoutes.Post("/:id/refund", h.HandleProcessRefund)
}

// CreateOrderRequest represents the request body for checkout.
type CreateOrderRequest struct {
	Items         []services.OrderLine `json:"items" validate:"required,min=1,dive"`
	Address       models.Address       `json:"address"`
	PaymentMethod string               `json:"payment_method" validate:"required"`
	Discount      float64              `json:"discount" validate:"gte=0"`
}

// HandleCreateOrder places an order for the authenticated user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	method, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid payment method",
			"error":   err.Error(),
		})
	}

	order, intent, err := h.service.CreateOrder(c.Context(), services.CreateOrderInput{
		UserID:        middleware.UserID(c),
		Lines:         req.Items,
		Address:       req.Address,
		PaymentMethod: method,
		Discount:      req.Discount,
	})
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondError(c, err, "Could not create order")
	}

	response := fiber.Map{
		"message": "Order created successfully",
		"order":   order,
	}
	if intent != nil {
		response["payment"] = intent
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// ConfirmPaymentRequest represents the gateway callback payload the client
// forwards after paying.
type ConfirmPaymentRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// HandleConfirmPayment verifies a gateway payment and marks the order paid.
func (h *OrderHandler) HandleConfirmPayment(c *fiber.Ctx) error {
	var req ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "payment_id and signature are required",
		})
	}

	order, err := h.service.ConfirmPayment(c.Context(), c.Params("id"), req.PaymentID, req.Signature)
	if err != nil {
		log.Printf("Error confirming payment for order %s: %v", c.Params("id"), err)
		return respondError(c, err, "Payment confirmation failed")
	}
	return c.JSON(fiber.Map{
		"message": "Payment confirmed",
		"order":   order,
	})
}

// HandleGetOrderHistory returns the authenticated user's orders.
func (h *OrderHandler) HandleGetOrderHistory(c *fiber.Ctx) error {
	orders, err := h.service.GetOrderHistory(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting order history: %v", err)
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order. Non-admin callers can only see
// their own orders; anyone else's look like they do not exist.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return respondError(c, err, "Could not retrieve order")
	}
	if !middleware.IsAdmin(c) && order.UserID != middleware.UserID(c) {
		return respondError(c, models.ErrOrderNotFound, "Could not retrieve order")
	}
	return c.JSON(order)
}

// HandleCancelItem cancels one item of the caller's order.
func (h *OrderHandler) HandleCancelItem(c *fiber.Ctx) error {
	order, err := h.service.CancelOrderItem(
		c.Params("id"), c.Params("itemId"),
		middleware.UserID(c), middleware.IsAdmin(c),
	)
	if err != nil {
		log.Printf("Error cancelling item %s of order %s: %v", c.Params("itemId"), c.Params("id"), err)
		return respondError(c, err, "Could not cancel order item")
	}
	return c.JSON(fiber.Map{
		"message": "Order item cancelled",
		"order":   order,
	})
}

// HandleRequestReturn asks for a return on a delivered item.
func (h *OrderHandler) HandleRequestReturn(c *fiber.Ctx) error {
	order, err := h.service.RequestReturn(c.Params("id"), c.Params("itemId"), middleware.UserID(c))
	if err != nil {
		log.Printf("Error requesting return for item %s of order %s: %v", c.Params("itemId"), c.Params("id"), err)
		return respondError(c, err, "Could not request return")
	}
	return c.JSON(fiber.Map{
		"message": "Return requested",
		"order":   order,
	})
}

// HandleGetAllOrders retrieves all orders (admin listing).
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// ChangeTrackingRequest represents the admin tracking-status override.
type ChangeTrackingRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

// HandleChangeTracking sets the tracking status of the item matching a
// product and rederives the order status.
func (h *OrderHandler) HandleChangeTracking(c *fiber.Ctx) error {
	var req ChangeTrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id and status are required",
		})
	}

	order, err := h.service.ChangeTrackingStatus(c.Params("id"), req.ProductID, req.Status)
	if err != nil {
		log.Printf("Error changing tracking status for order %s: %v", c.Params("id"), err)
		return respondError(c, err, "Could not update tracking status")
	}
	return c.JSON(fiber.Map{
		"message": "Tracking status updated",
		"order":   order,
	})
}

// ReturnDecisionRequest represents the admin decision on a return request.
type ReturnDecisionRequest struct {
	Decision string `json:"decision" validate:"required"`
}

// HandleReturnDecision approves or rejects a pending return request.
func (h *OrderHandler) HandleReturnDecision(c *fiber.Ctx) error {
	var req ReturnDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "decision is required",
		})
	}

	order, err := h.service.ApproveReturn(c.Params("id"), c.Params("itemId"), req.Decision)
	if err != nil {
		log.Printf("Error deciding return for item %s of order %s: %v", c.Params("itemId"), c.Params("id"), err)
		return respondError(c, err, "Could not process return decision")
	}
	return c.JSON(fiber.Map{
		"message": "Return decision recorded",
		"order":   order,
	})
}

// HandleProcessRefund refunds every refundable item of an order.
func (h *OrderHandler) HandleProcessRefund(c *fiber.Ctx) error {
	order, err := h.service.ProcessRefund(c.Params("id"))
	if err != nil {
		log.Printf("Error processing refund for order %s: %v", c.Params("id"), err)
		return respondError(c, err, "Could not process refund")
	}
	return c.JSON(fiber.Map{
		"message": "Refund processed",
		"order":   order,
	})
}
