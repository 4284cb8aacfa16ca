package services

import (
	"fmt"

	"vastra/internal/models"
	"vastra/internal/repositories"
)

// UserService handles admin-side account management.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// ListUsers retrieves all user accounts.
func (s *UserService) ListUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// ToggleBlocked flips the user's blocked flag and returns the updated record.
// A blocked user cannot log in; tokens issued before the block keep working
// until they expire.
func (s *UserService) ToggleBlocked(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	user.IsBlocked = !user.IsBlocked
	if err := s.userRepo.SetBlocked(user.ID, user.IsBlocked); err != nil {
		return nil, fmt.Errorf("failed to toggle blocked flag for user %s: %w", userID, err)
	}
	return user, nil
}
