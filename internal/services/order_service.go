package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"vastra/internal/models"
	"vastra/internal/payments"
	"vastra/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher is the order-event sink. The RabbitMQ client implements it;
// tests inject a mock.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

const orderExchange = "orders"

// OrderLine is one requested (product, size, quantity) at checkout.
type OrderLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CreateOrderInput carries everything checkout needs.
type CreateOrderInput struct {
	UserID        string
	Lines         []OrderLine
	Address       models.Address
	PaymentMethod models.PaymentMethod
	Discount      float64
}

// OrderService is the order workflow engine: it creates orders from stock,
// runs the per-item tracking state machine, derives the aggregate order
// status, and drives cancellation, returns and refunds against the wallet.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	cartRepo    repositories.CartRepository
	provider    payments.Provider
	mqClient    EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	cartRepo repositories.CartRepository,
	provider payments.Provider,
	mqClient EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		provider:    provider,
		mqClient:    mqClient,
	}
}

// GetAllOrders retrieves all orders (admin listing).
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrderHistory retrieves the orders placed by a user.
func (s *OrderService) GetOrderHistory(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// appliedLine records a stock decrement so it can be compensated if a later
// step of checkout fails.
type appliedLine struct {
	productID string
	size      string
	quantity  int
}

func (s *OrderService) rollbackStock(applied []appliedLine) {
	for _, line := range applied {
		if err := s.productRepo.IncrementStock(line.productID, line.size, line.quantity); err != nil {
			log.Printf("Failed to roll back stock for product %s size %s: %v", line.productID, line.size, err)
		}
	}
}

// CreateOrder places an order. Every line is validated against current stock
// before any bucket is touched; decrements are then applied one by one, and
// any later failure (a racing order, a wallet debit, the payment provider)
// compensates the decrements already applied, so no partial stock mutation
// survives a failed checkout.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, *payments.PaymentIntent, error) {
	user, err := s.userRepo.GetByID(in.UserID)
	if err != nil {
		return nil, nil, err
	}

	var items []models.OrderItem
	var totalPrice float64
	var totalQuantity int
	for _, line := range in.Lines {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, nil, err
		}
		bucket := product.SizeBucket(line.Size)
		if bucket == nil {
			return nil, nil, models.ErrSizeNotFound
		}
		if bucket.Stock < line.Quantity {
			return nil, nil, &models.InsufficientStockError{
				ProductID: product.ID,
				Size:      line.Size,
				Requested: line.Quantity,
				Available: bucket.Stock,
			}
		}
		items = append(items, models.OrderItem{
			ID:             uuid.New().String(),
			ProductID:      product.ID,
			Quantity:       line.Quantity,
			Price:          product.Price,
			Size:           line.Size,
			TrackingStatus: models.TrackingPending,
		})
		totalPrice += product.Price * float64(line.Quantity)
		totalQuantity += line.Quantity
	}

	finalPrice := totalPrice - in.Discount
	if finalPrice <= 0 {
		return nil, nil, models.ErrInvalidOrderTotal
	}

	// Apply the decrements. The repository guard re-checks each bucket, so a
	// concurrent order that won the race surfaces here as InsufficientStock.
	var applied []appliedLine
	for _, item := range items {
		if err := s.productRepo.DecrementStock(item.ProductID, item.Size, item.Quantity); err != nil {
			s.rollbackStock(applied)
			return nil, nil, err
		}
		applied = append(applied, appliedLine{productID: item.ProductID, size: item.Size, quantity: item.Quantity})
	}

	order := &models.Order{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		Items:         items,
		TotalPrice:    totalPrice,
		TotalQuantity: totalQuantity,
		Discount:      in.Discount,
		FinalPrice:    finalPrice,
		Status:        models.OrderPending,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: models.PaymentPending,
		Address:       in.Address,
	}

	var intent *payments.PaymentIntent
	walletDebited := false
	switch in.PaymentMethod {
	case models.PaymentMethodCOD:
		// Collected on delivery; nothing to do up front.
	case models.PaymentMethodWallet:
		// The debit must succeed before the order exists at all.
		if err := s.userRepo.DebitWallet(user.ID, finalPrice, "Purchase using wallet"); err != nil {
			s.rollbackStock(applied)
			return nil, nil, err
		}
		walletDebited = true
		order.PaymentStatus = models.PaymentPaid
	case models.PaymentMethodRazorpay:
		if s.provider == nil {
			s.rollbackStock(applied)
			return nil, nil, &models.PaymentProviderError{Op: "create order", Err: fmt.Errorf("payment provider not configured")}
		}
		intent, err = s.provider.CreateOrder(ctx, finalPrice, "INR", "rcpt_"+order.ID)
		if err != nil {
			s.rollbackStock(applied)
			return nil, nil, err
		}
		order.PaymentRef = intent.ID
	default:
		s.rollbackStock(applied)
		return nil, nil, fmt.Errorf("unknown payment method %q", in.PaymentMethod)
	}

	if err := s.orderRepo.Create(order); err != nil {
		s.rollbackStock(applied)
		if walletDebited {
			if refundErr := s.userRepo.CreditWallet(user.ID, finalPrice, "Refund for failed order"); refundErr != nil {
				log.Printf("Failed to refund wallet after order creation failure for user %s: %v", user.ID, refundErr)
			}
		}
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.removePurchasedCartLines(user.ID, in.Lines)
	s.publishEvent("order.created", map[string]interface{}{
		"order_id":       order.ID,
		"user_id":        order.UserID,
		"status":         order.Status,
		"final_price":    order.FinalPrice,
		"payment_method": order.PaymentMethod,
	})

	return order, intent, nil
}

// removePurchasedCartLines drops the checked-out lines from the user's cart.
// Best effort: a stale cart must not fail a placed order.
func (s *OrderService) removePurchasedCartLines(userID string, lines []OrderLine) {
	if s.cartRepo == nil {
		return
	}
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return
	}
	for _, line := range lines {
		if err := s.cartRepo.RemoveItem(cart.ID, line.ProductID, line.Size); err != nil {
			continue
		}
	}
	if refreshed, err := s.cartRepo.GetByUserID(userID); err == nil {
		refreshed.RecomputeTotals()
		if err := s.cartRepo.UpdateTotals(refreshed.ID, refreshed.TotalPrice, refreshed.TotalQuantity); err != nil {
			log.Printf("Failed to update cart totals for user %s: %v", userID, err)
		}
	}
}

// ConfirmPayment verifies the client-side payment confirmation for a gateway
// order: signature first, then the provider's own record must be captured.
// The order's payment status is only updated when both checks pass.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID, paymentID, signature string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentMethodRazorpay || order.PaymentRef == "" {
		return nil, fmt.Errorf("order %s has no pending gateway payment: %w", orderID, models.ErrInvalidStatusTransition)
	}
	if s.provider == nil {
		return nil, &models.PaymentProviderError{Op: "confirm payment", Err: fmt.Errorf("payment provider not configured")}
	}
	if err := s.provider.VerifySignature(order.PaymentRef, paymentID, signature); err != nil {
		return nil, err
	}
	status, err := s.provider.FetchPaymentStatus(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if status != payments.StatusCaptured {
		return nil, fmt.Errorf("payment %s has status %q: %w", paymentID, status, models.ErrPaymentNotCaptured)
	}

	order.PaymentID = paymentID
	order.PaymentStatus = models.PaymentPaid
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// fundsCaptured reports whether the buyer has actually paid, which decides
// whether a cancellation or refund credits the wallet.
func fundsCaptured(order *models.Order) bool {
	return order.PaymentMethod == models.PaymentMethodWallet || order.PaymentStatus == models.PaymentPaid
}

// CancelOrderItem cancels a single order item: sets it CANCELLED, restores
// its stock bucket, credits the wallet if funds were captured, and rederives
// the order status. A second cancel of the same item is rejected, so stock is
// restored and the wallet credited exactly once.
func (s *OrderService) CancelOrderItem(orderID, itemID, actorUserID string, isAdmin bool) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != actorUserID {
		return nil, models.ErrOrderNotFound
	}
	item := order.Item(itemID)
	if item == nil {
		return nil, models.ErrOrderItemNotFound
	}
	if item.TrackingStatus == models.TrackingCancelled {
		return nil, models.ErrAlreadyCancelled
	}
	if item.TrackingStatus != models.TrackingPending && item.TrackingStatus != models.TrackingShipped {
		return nil, fmt.Errorf("cannot cancel item in status %s: %w", item.TrackingStatus, models.ErrInvalidStatusTransition)
	}

	item.TrackingStatus = models.TrackingCancelled
	if err := s.productRepo.IncrementStock(item.ProductID, item.Size, item.Quantity); err != nil {
		return nil, err
	}
	if fundsCaptured(order) {
		amount := item.Price * float64(item.Quantity)
		if err := s.userRepo.CreditWallet(order.UserID, amount, "Refund for cancelled item"); err != nil {
			return nil, err
		}
	}

	order.Status = aggregateStatus(order.Items)
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	s.publishEvent("order.item.cancelled", map[string]interface{}{
		"order_id": order.ID,
		"item_id":  item.ID,
		"status":   order.Status,
	})
	return order, nil
}

// RequestReturn moves a delivered item to RETURN_REQUESTED and flags the
// order for admin review.
func (s *OrderService) RequestReturn(orderID, itemID, actorUserID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actorUserID {
		return nil, models.ErrOrderNotFound
	}
	item := order.Item(itemID)
	if item == nil {
		return nil, models.ErrOrderItemNotFound
	}
	if item.TrackingStatus != models.TrackingDelivered {
		return nil, fmt.Errorf("return requires a delivered item, got %s: %w", item.TrackingStatus, models.ErrInvalidStatusTransition)
	}

	item.TrackingStatus = models.TrackingReturnRequested
	order.ReturnApproval = models.ReturnApprovalPending
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ApproveReturn resolves a pending return request with APPROVED or REJECTED.
func (s *OrderService) ApproveReturn(orderID, itemID, decision string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	item := order.Item(itemID)
	if item == nil {
		return nil, models.ErrOrderItemNotFound
	}
	if item.TrackingStatus != models.TrackingReturnRequested {
		return nil, fmt.Errorf("no return requested for item, status %s: %w", item.TrackingStatus, models.ErrInvalidStatusTransition)
	}

	switch models.ReturnApproval(decision) {
	case models.ReturnApprovalApproved:
		item.TrackingStatus = models.TrackingReturnApproved
		order.ReturnApproval = models.ReturnApprovalApproved
	case models.ReturnApprovalRejected:
		item.TrackingStatus = models.TrackingReturnRejected
		order.ReturnApproval = models.ReturnApprovalRejected
	default:
		return nil, fmt.Errorf("unknown return decision %q", decision)
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	if order.ReturnApproval == models.ReturnApprovalApproved {
		s.publishEvent("order.returned", map[string]interface{}{
			"order_id": order.ID,
			"item_id":  item.ID,
		})
	}
	return order, nil
}

// ProcessRefund refunds an order: every item that is neither RETURNED nor
// CANCELLED has its stock restored and its value added to one wallet credit,
// then the items move to RETURNED and the order is marked refunded. Cancelled
// items are excluded because cancellation already restocked and credited them.
// The wallet credit only happens when funds were actually captured; refunding
// an unpaid COD order restocks the items but credits nothing.
func (s *OrderService) ProcessRefund(orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	var refundable []*models.OrderItem
	for i := range order.Items {
		status := order.Items[i].TrackingStatus
		if status == models.TrackingReturned || status == models.TrackingCancelled {
			continue
		}
		refundable = append(refundable, &order.Items[i])
	}
	if len(refundable) == 0 {
		return nil, models.ErrNoRefundableItems
	}

	var refundAmount float64
	for _, item := range refundable {
		if err := s.productRepo.IncrementStock(item.ProductID, item.Size, item.Quantity); err != nil {
			return nil, err
		}
		refundAmount += item.Price * float64(item.Quantity)
		item.TrackingStatus = models.TrackingReturned
	}

	if !fundsCaptured(order) {
		refundAmount = 0
	}
	if refundAmount > 0 {
		if err := s.userRepo.CreditWallet(order.UserID, refundAmount,
			fmt.Sprintf("Refund for order %s", order.ID)); err != nil {
			return nil, err
		}
		order.PaymentStatus = models.PaymentRefunded
	}

	order.Refunded = true
	order.RefundAmount = refundAmount
	order.Status = models.OrderReturned
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	s.publishEvent("order.refunded", map[string]interface{}{
		"order_id":      order.ID,
		"user_id":       order.UserID,
		"refund_amount": refundAmount,
	})
	return order, nil
}

// ChangeTrackingStatus is the coarse admin override: it sets one of the four
// core statuses directly on the item matching the product, bypassing the
// request/approve flow, then rederives the order status.
func (s *OrderService) ChangeTrackingStatus(orderID, productID, status string) (*models.Order, error) {
	trackingStatus, err := models.ParseCoreTrackingStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	item := order.ItemByProduct(productID)
	if item == nil {
		return nil, models.ErrOrderItemNotFound
	}

	item.TrackingStatus = trackingStatus
	order.Status = aggregateStatus(order.Items)
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// aggregateStatus is the fold from item tracking statuses to the order
// status: DELIVERED iff all delivered, CANCELLED iff all cancelled, SHIPPED
// if any shipped, else PENDING.
func aggregateStatus(items []models.OrderItem) models.OrderStatus {
	allDelivered := len(items) > 0
	allCancelled := len(items) > 0
	anyShipped := false
	for _, item := range items {
		if item.TrackingStatus != models.TrackingDelivered {
			allDelivered = false
		}
		if item.TrackingStatus != models.TrackingCancelled {
			allCancelled = false
		}
		if item.TrackingStatus == models.TrackingShipped {
			anyShipped = true
		}
	}
	switch {
	case allDelivered:
		return models.OrderDelivered
	case allCancelled:
		return models.OrderCancelled
	case anyShipped:
		return models.OrderShipped
	default:
		return models.OrderPending
	}
}

func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	payload["at"] = time.Now().Format(time.RFC3339)
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mqClient.Publish(orderExchange, routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
