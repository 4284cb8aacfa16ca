package services

import (
	"vastra/internal/models"
	"vastra/internal/repositories"
)

// CategoryService handles business logic related to catalog categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetAllCategories retrieves all categories.
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.repo.GetAll()
}

// CreateCategory creates a new category.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	return s.repo.Create(category)
}

// UpdateCategory updates an existing category's name and description.
func (s *CategoryService) UpdateCategory(category *models.Category) error {
	return s.repo.Update(category)
}

// DeleteCategory removes a category. Products carrying the category name are
// left alone.
func (s *CategoryService) DeleteCategory(id string) error {
	return s.repo.Delete(id)
}
