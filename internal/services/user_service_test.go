package services_test

import (
	"testing"

	"vastra/internal/models"
	"vastra/internal/repositories"
	"vastra/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestUserService_ListUsers(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	service := services.NewUserService(repo)

	assert.NoError(t, repo.Create(&models.User{Username: "asha", Email: "asha@example.com", Password: "hash"}))
	assert.NoError(t, repo.Create(&models.User{Username: "ravi", Email: "ravi@example.com", Password: "hash"}))

	users, err := service.ListUsers()
	assert.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserService_ToggleBlocked(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	service := services.NewUserService(repo)

	user := &models.User{Username: "asha", Email: "asha@example.com", Password: "hash"}
	assert.NoError(t, repo.Create(user))

	// First toggle blocks
	updated, err := service.ToggleBlocked(user.ID)
	assert.NoError(t, err)
	assert.True(t, updated.IsBlocked)

	stored, err := repo.GetByID(user.ID)
	assert.NoError(t, err)
	assert.True(t, stored.IsBlocked)

	// Second toggle unblocks
	updated, err = service.ToggleBlocked(user.ID)
	assert.NoError(t, err)
	assert.False(t, updated.IsBlocked)

	stored, err = repo.GetByID(user.ID)
	assert.NoError(t, err)
	assert.False(t, stored.IsBlocked)
}

func TestUserService_ToggleBlockedUnknownUser(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	service := services.NewUserService(repo)

	_, err := service.ToggleBlocked("no-such-user")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
