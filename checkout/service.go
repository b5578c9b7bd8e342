package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"storefront-service/models"
)

// Store is the single read-then-write abstraction over the catalog and order
// collections. CreatePaidOrder must be atomic: the order insert and every
// stock decrement commit together or not at all, and a decrement below zero
// must fail the whole batch.
type Store interface {
	ProductByID(ctx context.Context, id string) (*models.Product, error)
	CouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	CreatePaidOrder(ctx context.Context, order *models.Order) error
}

// Gateway creates payment intents with the payment provider. It returns the
// gateway-side order id for the given amount in minor currency units.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int, currency, receipt, email string) (string, error)
}

// Publisher emits order lifecycle events after commit.
type Publisher interface {
	PublishOrderEvent(event models.OrderEvent, priority int) error
}

// Quote is the server-priced result of order creation: the intent id, the
// authoritative amount in minor units, and the priced lines the client should
// render instead of its own cart prices.
type Quote struct {
	OrderID  string             `json:"orderId"`
	Amount   int                `json:"amount"`
	Currency string             `json:"currency"`
	Items    []models.OrderItem `json:"items"`
}

type Service struct {
	store    Store
	gateway  Gateway
	events   Publisher
	secret   string
	currency string
}

func NewService(store Store, gateway Gateway, events Publisher, secret, currency string) *Service {
	return &Service{
		store:    store,
		gateway:  gateway,
		events:   events,
		secret:   secret,
		currency: currency,
	}
}

// PriceOrder recomputes the cart total from current catalog records and
// creates a payment intent for exactly that amount. No state is persisted;
// a failure at any step leaves nothing behind.
func (s *Service) PriceOrder(ctx context.Context, payload *models.OrderPayload) (*Quote, error) {
	items, total, err := s.priceLines(ctx, payload.Items, true)
	if err != nil {
		return nil, err
	}

	amount := total * 100 // rupees to paise
	receipt := uuid.NewString()

	orderID, err := s.gateway.CreateOrder(ctx, amount, s.currency, receipt, payload.DeliveryDetails.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	return &Quote{
		OrderID:  orderID,
		Amount:   amount,
		Currency: s.currency,
		Items:    items,
	}, nil
}

// ConfirmPayment verifies the gateway signature and, on match, persists the
// order and decrements stock in one atomic batch. The echoed payload is
// re-priced from the catalog so a tampered echo cannot change what is stored.
// Retries with an already-persisted order id succeed without a second write.
func (s *Service) ConfirmPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.Order, error) {
	if err := VerifySignature(s.secret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature); err != nil {
		return nil, err
	}

	items, total, err := s.priceLines(ctx, req.OrderDetails.Items, false)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:          req.RazorpayOrderID,
		PaymentID:   req.RazorpayPaymentID,
		Items:       items,
		TotalAmount: total,
		Delivery:    req.OrderDetails.DeliveryDetails,
		Status:      "Paid",
		CreatedAt:   time.Now(),
	}

	if err := s.store.CreatePaidOrder(ctx, order); err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return order, nil
		}
		return nil, err
	}

	if s.events != nil {
		priority := 5
		if order.TotalAmount > 1000 {
			priority = 9
		}
		event := models.OrderEvent{
			OrderID:  order.ID,
			Type:     "created",
			Status:   order.Status,
			Email:    order.Delivery.Email,
			Total:    order.TotalAmount,
			Occurred: time.Now(),
		}
		if err := s.events.PublishOrderEvent(event, priority); err != nil {
			log.Printf("Failed to publish order created event: %v", err)
		}
	}

	return order, nil
}

// priceLines resolves every cart line against the catalog. Unit prices come
// exclusively from the product records. With checkStock set, requested
// quantities are validated against current stock up front; verification skips
// that pre-check because the conditional decrement inside CreatePaidOrder is
// authoritative.
func (s *Service) priceLines(ctx context.Context, lines []models.CartLine, checkStock bool) ([]models.OrderItem, int, error) {
	items := make([]models.OrderItem, 0, len(lines))
	total := 0

	for _, line := range lines {
		product, err := s.store.ProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, 0, err
		}
		if !product.Active {
			return nil, 0, fmt.Errorf("%w: %s", ErrProductUnavailable, line.ProductID)
		}
		if checkStock && line.Quantity > product.Stock {
			return nil, 0, fmt.Errorf("%w: %s (requested %d, available %d)",
				ErrInsufficientStock, product.Name, line.Quantity, product.Stock)
		}

		items = append(items, models.OrderItem{
			ProductID:       product.ID,
			Name:            product.Name,
			Price:           product.Price,
			Quantity:        line.Quantity,
			SelectedOptions: line.SelectedOptions,
		})
		total += product.Price * line.Quantity
	}

	return items, total, nil
}
