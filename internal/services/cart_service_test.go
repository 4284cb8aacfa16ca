package services_test

import (
	"testing"

	"vastra/internal/models"
	"vastra/internal/repositories"
	"vastra/internal/services"

	"github.com/stretchr/testify/assert"
)

func newCartFixture() *services.CartService {
	carts := repositories.NewMockCartRepository()
	products := repositories.NewMockProductRepository()
	products.Create(&models.Product{
		ID: "prod-1", Name: "Linen Kurta", Price: 100.0,
		Sizes: []models.SizeStock{{Size: "M", Stock: 5}, {Size: "L", Stock: 2}},
	})
	return services.NewCartService(carts, products)
}

func TestCartService_GetCart_CreatesEmptyCart(t *testing.T) {
	service := newCartFixture()

	cart, err := service.GetCart("user-1")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", cart.UserID)
	assert.Empty(t, cart.Items)

	// A second call returns the same cart instead of creating another.
	again, err := service.GetCart("user-1")
	assert.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartService_AddItem(t *testing.T) {
	service := newCartFixture()

	cart, err := service.AddItem("user-1", "prod-1", "M", 2)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 100.0, cart.Items[0].Price)
	assert.Equal(t, 5, cart.Items[0].Stock)
	assert.Equal(t, 200.0, cart.TotalPrice)
	assert.Equal(t, 2, cart.TotalQuantity)

	// Adding the same (product, size) merges into one line.
	cart, err = service.AddItem("user-1", "prod-1", "M", 1)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 300.0, cart.TotalPrice)

	// A different size is its own line.
	cart, err = service.AddItem("user-1", "prod-1", "L", 1)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 400.0, cart.TotalPrice)
	assert.Equal(t, 4, cart.TotalQuantity)
}

func TestCartService_AddItem_Validation(t *testing.T) {
	service := newCartFixture()

	_, err := service.AddItem("user-1", "prod-1", "M", 0)
	assert.Error(t, err)

	_, err = service.AddItem("user-1", "missing", "M", 1)
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	_, err = service.AddItem("user-1", "prod-1", "XXL", 1)
	assert.ErrorIs(t, err, models.ErrSizeNotFound)
}

func TestCartService_UpdateItemQuantity(t *testing.T) {
	service := newCartFixture()
	_, err := service.AddItem("user-1", "prod-1", "M", 2)
	assert.NoError(t, err)

	cart, err := service.UpdateItemQuantity("user-1", "prod-1", "M", 5)
	assert.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 500.0, cart.TotalPrice)

	_, err = service.UpdateItemQuantity("user-1", "prod-1", "L", 1)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	service := newCartFixture()
	_, err := service.AddItem("user-1", "prod-1", "M", 2)
	assert.NoError(t, err)
	_, err = service.AddItem("user-1", "prod-1", "L", 1)
	assert.NoError(t, err)

	cart, err := service.RemoveItem("user-1", "prod-1", "M")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "L", cart.Items[0].Size)
	assert.Equal(t, 100.0, cart.TotalPrice)

	_, err = service.RemoveItem("user-1", "prod-1", "M")
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)
}

func TestCartService_ClearCart(t *testing.T) {
	service := newCartFixture()
	_, err := service.AddItem("user-1", "prod-1", "M", 2)
	assert.NoError(t, err)

	cart, err := service.ClearCart("user-1")
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.TotalPrice)
	assert.Equal(t, 0, cart.TotalQuantity)
}
