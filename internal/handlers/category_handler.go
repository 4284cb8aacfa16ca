package handlers

import (
	"fmt"
	"log"

	"vastra/internal/models"
	"vastra/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for catalog categories. The whole
// surface is admin-only, including listing.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterAdminRoutes registers the category management routes.
func (h *CategoryHandler) RegisterAdminRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Put("/:id", h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", h.HandleDeleteCategory)
}

// HandleGetCategories retrieves all categories.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		log.Printf("Error getting all categories: %v", err)
		return respondError(c, err, "Could not retrieve categories")
	}
	return c.JSON(categories)
}

// HandleCreateCategory creates a new category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		log.Printf("Error parsing category request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(category); err != nil {
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

	if err := h.service.CreateCategory(&category); err != nil {
		log.Printf("Error creating category: %v", err)
		return respondError(c, err, "Could not create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory updates an existing category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	category.ID = c.Params("id")

	if err := h.service.UpdateCategory(&category); err != nil {
		log.Printf("Error updating category %s: %v", category.ID, err)
		return respondError(c, err, "Could not update category")
	}
	return c.JSON(fiber.Map{
		"message":  "Category updated successfully",
		"category": category,
	})
}

// HandleDeleteCategory removes a category.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	if err := h.service.DeleteCategory(categoryID); err != nil {
		log.Printf("Error deleting category %s: %v", categoryID, err)
		return respondError(c, err, "Could not delete category")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Category %s deleted successfully", categoryID),
	})
}
