package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"vastra/internal/handlers"
	"vastra/internal/middleware"
	"vastra/internal/models"
	"vastra/internal/repositories"
	"vastra/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds the full route tree against a per-test in-memory SQLite
// database. No payment provider and no broker: the flows under test here are
// COD and wallet.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.WalletTransaction{},
		&models.Category{},
		&models.Product{},
		&models.SizeStock{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	assert.NoError(t, err)

	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	authService := services.NewAuthService(userRepo, "test_jwt_secret")
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	walletService := services.NewWalletService(userRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, userRepo, cartRepo, nil, nil)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	cartHandler := handlers.NewCartHandler(cartService)
	walletHandler := handlers.NewWalletHandler(walletService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)

	authenticated := apiV1.Group("", middleware.AuthRequired(authService))
	cartHandler.RegisterRoutes(authenticated)
	walletHandler.RegisterRoutes(authenticated)
	orderHandler.RegisterRoutes(authenticated)

	admin := apiV1.Group("/admin", middleware.AuthRequired(authService), middleware.AdminRequired())
	productHandler.RegisterAdminRoutes(admin)
	categoryHandler.RegisterAdminRoutes(admin)
	userHandler.RegisterAdminRoutes(admin)
	walletHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)

	return app, db
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerAndLogin creates a user and returns a bearer token.
func registerAndLogin(t *testing.T, app *fiber.App, username, email string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

// promoteToAdmin flips a user's role directly in the database; admins are
// provisioned out of band, never through the API.
func promoteToAdmin(t *testing.T, app *fiber.App, db *gorm.DB, username, email string) string {
	t.Helper()

	registerAndLogin(t, app, username, email)
	err := db.Model(&models.User{}).Where("username = ?", username).Update("role", models.RoleAdmin).Error
	assert.NoError(t, err)

	// Log in again so the token carries the admin role.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	return loginResp["token"]
}

func userIDOf(t *testing.T, db *gorm.DB, username string) string {
	t.Helper()
	var user models.User
	assert.NoError(t, db.Where("username = ?", username).First(&user).Error)
	return user.ID
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	userToRegister := map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", userToRegister)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var registerResp map[string]interface{}
	decodeBody(t, resp, &registerResp)
	assert.Equal(t, "User registered successfully", registerResp["message"])

	// Duplicate registration is a conflict.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", userToRegister)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "testuser",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp["token"])

	// Wrong password
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "testuser",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestCatalogAndAdminWrites(t *testing.T) {
	app, db := setupApp(t)

	userToken := registerAndLogin(t, app, "shopper", "shopper@example.com")
	adminToken := promoteToAdmin(t, app, db, "staff", "staff@example.com")

	// The catalog is public.
	resp := doJSON(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	newProduct := map[string]interface{}{
		"name":        "Linen Kurta",
		"category":    "Ethnic",
		"description": "Handwoven linen kurta",
		"price":       100.0,
		"sizes": []map[string]interface{}{
			{"size": "M", "stock": 5},
			{"size": "L", "stock": 2},
		},
	}

	// Writes need a token, and the admin role on top of that.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/admin/products", "", newProduct)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/admin/products", userToken, newProduct)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/admin/products", adminToken, newProduct)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Len(t, created.Sizes, 2)

	// Anyone can read it back.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Product
	decodeBody(t, resp, &fetched)
	assert.Equal(t, created.ID, fetched.ID)

	// Update replaces the size buckets.
	resp = doJSON(t, app, http.MethodPut, "/api/v1/admin/products/"+created.ID, adminToken, map[string]interface{}{
		"name":     "Linen Kurta (Festive)",
		"category": "Ethnic",
		"price":    120.0,
		"sizes": []map[string]interface{}{
			{"size": "S", "stock": 4},
		},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, "", nil)
	decodeBody(t, resp, &fetched)
	assert.Equal(t, "Linen Kurta (Festive)", fetched.Name)
	assert.Len(t, fetched.Sizes, 1)
	assert.Equal(t, "S", fetched.Sizes[0].Size)

	// Soft delete hides it from the catalog.
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/admin/products/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckoutCancelAndWallet(t *testing.T) {
	app, db := setupApp(t)

	userToken := registerAndLogin(t, app, "buyer", "buyer@example.com")
	adminToken := promoteToAdmin(t, app, db, "staff", "staff@example.com")
	buyerID := userIDOf(t, db, "buyer")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/admin/products", adminToken, map[string]interface{}{
		"name":     "Cotton Saree",
		"category": "Ethnic",
		"price":    50.0,
		"sizes":    []map[string]interface{}{{"size": "FREE", "stock": 3}},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	decodeBody(t, resp, &product)

	// Fund the buyer's wallet.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/admin/wallet/credit", adminToken, map[string]interface{}{
		"user_id":     buyerID,
		"amount":      500.0,
		"description": "Welcome credit",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Build a cart.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart/items", userToken, map[string]interface{}{
		"product_id": product.ID,
		"size":       "FREE",
		"quantity":   2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var cart models.Cart
	decodeBody(t, resp, &cart)
	assert.Equal(t, 100.0, cart.TotalPrice)

	// Check out with the wallet.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "size": "FREE", "quantity": 2},
		},
		"payment_method": "wallet",
		"address": map[string]string{
			"fullname": "Buyer One",
			"street":   "1 Bazaar Road",
			"city":     "Jaipur",
			"zip":      "302001",
			"country":  "IN",
		},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var orderResp struct {
		Order models.Order `json:"order"`
	}
	decodeBody(t, resp, &orderResp)
	order := orderResp.Order
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.Len(t, order.Items, 1)

	// The checked-out line is gone from the cart.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/cart", userToken, nil)
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)

	// Stock went down.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+product.ID, "", nil)
	decodeBody(t, resp, &product)
	assert.Equal(t, 1, product.Sizes[0].Stock)

	// Wallet reflects the debit.
	var wallet struct {
		Balance      float64                    `json:"balance"`
		Transactions []models.WalletTransaction `json:"transactions"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/v1/wallet", userToken, nil)
	decodeBody(t, resp, &wallet)
	assert.Equal(t, 400.0, wallet.Balance)
	assert.Len(t, wallet.Transactions, 2)

	// Cancel the item: stock and money come back.
	cancelPath := fmt.Sprintf("/api/v1/orders/%s/items/%s/cancel", order.ID, order.Items[0].ID)
	resp = doJSON(t, app, http.MethodPost, cancelPath, userToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &orderResp)
	assert.Equal(t, models.OrderCancelled, orderResp.Order.Status)

	// A second cancel changes nothing.
	resp = doJSON(t, app, http.MethodPost, cancelPath, userToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+product.ID, "", nil)
	decodeBody(t, resp, &product)
	assert.Equal(t, 3, product.Sizes[0].Stock)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/wallet", userToken, nil)
	decodeBody(t, resp, &wallet)
	assert.Equal(t, 500.0, wallet.Balance)
}

func TestOrderBoundaryValidation(t *testing.T) {
	app, db := setupApp(t)

	userToken := registerAndLogin(t, app, "buyer", "buyer@example.com")
	otherToken := registerAndLogin(t, app, "other", "other@example.com")
	adminToken := promoteToAdmin(t, app, db, "staff", "staff@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/admin/products", adminToken, map[string]interface{}{
		"name":     "Silk Dupatta",
		"category": "Ethnic",
		"price":    75.0,
		"sizes":    []map[string]interface{}{{"size": "FREE", "stock": 1}},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	decodeBody(t, resp, &product)

	// Unknown payment methods are rejected at the boundary.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"items":          []map[string]interface{}{{"product_id": product.ID, "size": "FREE", "quantity": 1}},
		"payment_method": "CHEQUE",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Overselling is rejected and no order is created.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"items":          []map[string]interface{}{{"product_id": product.ID, "size": "FREE", "quantity": 5}},
		"payment_method": "COD",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// A valid COD order.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"items":          []map[string]interface{}{{"product_id": product.ID, "size": "FREE", "quantity": 1}},
		"payment_method": "COD",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var orderResp struct {
		Order models.Order `json:"order"`
	}
	decodeBody(t, resp, &orderResp)

	// Another user cannot see or touch it.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderResp.Order.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	cancelPath := fmt.Sprintf("/api/v1/orders/%s/items/%s/cancel", orderResp.Order.ID, orderResp.Order.Items[0].ID)
	resp = doJSON(t, app, http.MethodPost, cancelPath, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// The owner sees their own history.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders", userToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var history []models.Order
	decodeBody(t, resp, &history)
	assert.Len(t, history, 1)

	// Admin runs the tracking machine and the refund.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/admin/orders/"+orderResp.Order.ID+"/tracking", adminToken, map[string]string{
		"product_id": product.ID,
		"status":     "DELIVERED",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &orderResp)
	assert.Equal(t, models.OrderDelivered, orderResp.Order.Status)

	// Refunding the unpaid COD order restocks the item but credits nothing.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/admin/orders/"+orderResp.Order.ID+"/refund", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &orderResp)
	assert.True(t, orderResp.Order.Refunded)
	assert.Equal(t, 0.0, orderResp.Order.RefundAmount)

	var wallet struct {
		Balance float64 `json:"balance"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/v1/wallet", userToken, nil)
	decodeBody(t, resp, &wallet)
	assert.Equal(t, 0.0, wallet.Balance)
}

func TestCategoryAdminCRUD(t *testing.T) {
	app, db := setupApp(t)

	userToken := registerAndLogin(t, app, "shopper", "shopper@example.com")
	adminToken := promoteToAdmin(t, app, db, "staff", "staff@example.com")

	// The whole category surface is admin-only, listing included.
	resp := doJSON(t, app, http.MethodGet, "/api/v1/admin/categories", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/admin/categories", adminToken, map[string]string{
		"name":        "Kurtas",
		"description": "Daily and festive kurtas",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Category
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)

	// Name too short fails validation.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/admin/categories", adminToken, map[string]string{
		"name": "K",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/categories", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var categories []models.Category
	decodeBody(t, resp, &categories)
	assert.Len(t, categories, 1)

	resp = doJSON(t, app, http.MethodPut, "/api/v1/admin/categories/"+created.ID, adminToken, map[string]string{
		"name":        "Festive Kurtas",
		"description": "Occasion wear",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/categories", adminToken, nil)
	decodeBody(t, resp, &categories)
	assert.Len(t, categories, 1)
	assert.Equal(t, "Festive Kurtas", categories[0].Name)

	// Updating a missing category is a 404.
	resp = doJSON(t, app, http.MethodPut, "/api/v1/admin/categories/"+created.ID+"-missing", adminToken, map[string]string{
		"name": "Ghost",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/admin/categories/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/categories", adminToken, nil)
	decodeBody(t, resp, &categories)
	assert.Empty(t, categories)
}

func TestAdminUserManagement(t *testing.T) {
	app, db := setupApp(t)

	registerAndLogin(t, app, "shopper", "shopper@example.com")
	adminToken := promoteToAdmin(t, app, db, "staff", "staff@example.com")
	shopperID := userIDOf(t, db, "shopper")

	// Listing users is admin-only and never leaks password hashes.
	resp := doJSON(t, app, http.MethodGet, "/api/v1/admin/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var users []map[string]interface{}
	decodeBody(t, resp, &users)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u["Password"])
	}

	// Blocking the shopper locks them out of login with a 403.
	resp = doJSON(t, app, http.MethodPut, "/api/v1/admin/users/"+shopperID+"/status", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var toggleResp struct {
		User models.User `json:"user"`
	}
	decodeBody(t, resp, &toggleResp)
	assert.True(t, toggleResp.User.IsBlocked)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "shopper",
		"password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Unblocking restores access.
	resp = doJSON(t, app, http.MethodPut, "/api/v1/admin/users/"+shopperID+"/status", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &toggleResp)
	assert.False(t, toggleResp.User.IsBlocked)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "shopper",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Toggling an unknown user is a 404.
	resp = doJSON(t, app, http.MethodPut, "/api/v1/admin/users/no-such-user/status", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
