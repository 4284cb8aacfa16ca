package handlers

import (
	"log"

	"vastra/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles the admin account management routes.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterAdminRoutes registers the user management routes.
func (h *UserHandler) RegisterAdminRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Put("/:id/status", h.HandleToggleUserStatus)
}

// HandleGetUsers retrieves all user accounts, with password hashes stripped.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers()
	if err != nil {
		log.Printf("Error getting all users: %v", err)
		return respondError(c, err, "Could not retrieve users")
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(users)
}

// HandleToggleUserStatus flips the blocked flag on a user account.
func (h *UserHandler) HandleToggleUserStatus(c *fiber.Ctx) error {
	userID := c.Params("id")
	user, err := h.service.ToggleBlocked(userID)
	if err != nil {
		log.Printf("Error toggling status for user %s: %v", userID, err)
		return respondError(c, err, "Could not update user status")
	}

	user.Password = ""
	message := "User unblocked successfully"
	if user.IsBlocked {
		message = "User blocked successfully"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"user":    user,
	})
}
