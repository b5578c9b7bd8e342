package checkout_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/checkout"
	"storefront-service/models"
)

const testSecret = "test-key-secret"

type fakeStore struct {
	products  map[string]*models.Product
	coupons   map[string]*models.Coupon
	orders    map[string]*models.Order
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]*models.Product{},
		coupons:  map[string]*models.Coupon{},
		orders:   map[string]*models.Order{},
	}
}

func (f *fakeStore) ProductByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", checkout.ErrProductUnavailable, id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) CouponByCode(_ context.Context, code string) (*models.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", checkout.ErrCouponNotFound, code)
	}
	cp := *c
	return &cp, nil
}

// CreatePaidOrder mirrors the store contract: all-or-nothing, conditional
// decrements, duplicate ids rejected before any decrement.
func (f *fakeStore) CreatePaidOrder(_ context.Context, order *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.orders[order.ID]; ok {
		return checkout.ErrAlreadyProcessed
	}
	for _, item := range order.Items {
		p, ok := f.products[item.ProductID]
		if !ok || p.Stock < item.Quantity {
			return fmt.Errorf("%w: %s", checkout.ErrInsufficientStock, item.ProductID)
		}
	}
	for _, item := range order.Items {
		f.products[item.ProductID].Stock -= item.Quantity
	}
	f.orders[order.ID] = order
	return nil
}

type fakeGateway struct {
	orderID      string
	lastAmount   int
	lastCurrency string
	receipts     []string
	err          error
}

func (f *fakeGateway) CreateOrder(_ context.Context, amount int, currency, receipt, email string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastAmount = amount
	f.lastCurrency = currency
	f.receipts = append(f.receipts, receipt)
	return f.orderID, nil
}

func newService(store *fakeStore, gw *fakeGateway) *checkout.Service {
	return checkout.NewService(store, gw, nil, testSecret, "INR")
}

func payload(lines ...models.CartLine) *models.OrderPayload {
	return &models.OrderPayload{
		Items:           lines,
		DeliveryDetails: models.DeliveryDetails{Email: "buyer@example.com", Name: "Buyer"},
	}
}

func TestPriceOrderUsesCatalogPrices(t *testing.T) {
	store := newFakeStore()
	store.products["prodA"] = &models.Product{ID: "prodA", Name: "Rudraksha Mala", Price: 500, Stock: 10, Active: true}
	gw := &fakeGateway{orderID: "order_A1"}
	svc := newService(store, gw)

	quote, err := svc.PriceOrder(context.Background(), payload(models.CartLine{ProductID: "prodA", Quantity: 2}))
	require.NoError(t, err)

	assert.Equal(t, 100000, quote.Amount, "500 rupees x 2 is 100000 paise")
	assert.Equal(t, 100000, gw.lastAmount)
	assert.Equal(t, "INR", quote.Currency)
	assert.Equal(t, "order_A1", quote.OrderID)
	require.Len(t, quote.Items, 1)
	assert.Equal(t, 500, quote.Items[0].Price)
}

func TestPriceOrderMultipleLines(t *testing.T) {
	store := newFakeStore()
	store.products["a"] = &models.Product{ID: "a", Name: "Incense", Price: 150, Stock: 20, Active: true}
	store.products["b"] = &models.Product{ID: "b", Name: "Diya", Price: 75, Stock: 8, Active: true}
	gw := &fakeGateway{orderID: "order_M1"}
	svc := newService(store, gw)

	quote, err := svc.PriceOrder(context.Background(), payload(
		models.CartLine{ProductID: "a", Quantity: 2},
		models.CartLine{ProductID: "b", Quantity: 4},
	))
	require.NoError(t, err)
	assert.Equal(t, (150*2+75*4)*100, quote.Amount)
}

func TestPriceOrderUnknownProduct(t *testing.T) {
	svc := newService(newFakeStore(), &fakeGateway{orderID: "order_X"})

	_, err := svc.PriceOrder(context.Background(), payload(models.CartLine{ProductID: "ghost", Quantity: 1}))
	assert.ErrorIs(t, err, checkout.ErrProductUnavailable)
}

func TestPriceOrderInactiveProduct(t *testing.T) {
	store := newFakeStore()
	store.products["retired"] = &models.Product{ID: "retired", Name: "Old Item", Price: 100, Stock: 5, Active: false}
	svc := newService(store, &fakeGateway{orderID: "order_X"})

	_, err := svc.PriceOrder(context.Background(), payload(models.CartLine{ProductID: "retired", Quantity: 1}))
	assert.ErrorIs(t, err, checkout.ErrProductUnavailable)
}

func TestPriceOrderInsufficientStock(t *testing.T) {
	store := newFakeStore()
	store.products["rare"] = &models.Product{ID: "rare", Name: "Rare Idol", Price: 900, Stock: 2, Active: true}
	svc := newService(store, &fakeGateway{orderID: "order_X"})

	_, err := svc.PriceOrder(context.Background(), payload(models.CartLine{ProductID: "rare", Quantity: 3}))
	assert.ErrorIs(t, err, checkout.ErrInsufficientStock)
}

func TestPriceOrderGatewayFailureLeavesNoState(t *testing.T) {
	store := newFakeStore()
	store.products["a"] = &models.Product{ID: "a", Name: "Incense", Price: 150, Stock: 20, Active: true}
	gw := &fakeGateway{err: errors.New("gateway unreachable")}
	svc := newService(store, gw)

	_, err := svc.PriceOrder(context.Background(), payload(models.CartLine{ProductID: "a", Quantity: 1}))
	assert.ErrorIs(t, err, checkout.ErrPaymentGateway)
	assert.Empty(t, store.orders)
	assert.Equal(t, 20, store.products["a"].Stock)
}

func TestPriceOrderFreshReceiptPerIntent(t *testing.T) {
	store := newFakeStore()
	store.products["a"] = &models.Product{ID: "a", Name: "Incense", Price: 150, Stock: 20, Active: true}
	gw := &fakeGateway{orderID: "order_R"}
	svc := newService(store, gw)

	_, err := svc.PriceOrder(context.Background(), payload(models.CartLine{ProductID: "a", Quantity: 1}))
	require.NoError(t, err)
	_, err = svc.PriceOrder(context.Background(), payload(models.CartLine{ProductID: "a", Quantity: 1}))
	require.NoError(t, err)

	require.Len(t, gw.receipts, 2)
	assert.NotEqual(t, gw.receipts[0], gw.receipts[1])
}

func verifyRequest(orderID, paymentID string, lines ...models.CartLine) *models.VerifyPaymentRequest {
	return &models.VerifyPaymentRequest{
		RazorpayOrderID:   orderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: checkout.ExpectedSignature(testSecret, orderID, paymentID),
		OrderDetails:      *payload(lines...),
	}
}

// Full checkout: cart [{sku1, qty 3}] against catalog sku1 {price 200,
// stock 5} yields a 60000 paise intent; after verification stock is 2 and
// exactly one order with total 600 exists.
func TestCheckoutScenario(t *testing.T) {
	store := newFakeStore()
	store.products["sku1"] = &models.Product{ID: "sku1", Name: "Copper Kalash", Price: 200, Stock: 5, Active: true}
	gw := &fakeGateway{orderID: "order_S1"}
	svc := newService(store, gw)

	quote, err := svc.PriceOrder(context.Background(), payload(models.CartLine{ProductID: "sku1", Quantity: 3}))
	require.NoError(t, err)
	assert.Equal(t, 60000, quote.Amount)

	order, err := svc.ConfirmPayment(context.Background(), verifyRequest("order_S1", "pay_S1",
		models.CartLine{ProductID: "sku1", Quantity: 3}))
	require.NoError(t, err)

	assert.Equal(t, 2, store.products["sku1"].Stock)
	require.Len(t, store.orders, 1)
	assert.Equal(t, 600, order.TotalAmount)
	assert.Equal(t, "Paid", order.Status)
	assert.Equal(t, "pay_S1", order.PaymentID)
}

func TestConfirmPaymentRejectsMutatedSignature(t *testing.T) {
	store := newFakeStore()
	store.products["sku1"] = &models.Product{ID: "sku1", Name: "Copper Kalash", Price: 200, Stock: 5, Active: true}
	svc := newService(store, &fakeGateway{orderID: "order_S1"})

	req := verifyRequest("order_S1", "pay_S1", models.CartLine{ProductID: "sku1", Quantity: 3})
	sig := []byte(req.RazorpaySignature)
	if sig[0] == 'f' {
		sig[0] = '0'
	} else {
		sig[0] = 'f'
	}
	req.RazorpaySignature = string(sig)

	_, err := svc.ConfirmPayment(context.Background(), req)
	assert.ErrorIs(t, err, checkout.ErrInvalidSignature)
	assert.Empty(t, store.orders)
	assert.Equal(t, 5, store.products["sku1"].Stock)
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	store := newFakeStore()
	store.products["sku1"] = &models.Product{ID: "sku1", Name: "Copper Kalash", Price: 200, Stock: 5, Active: true}
	svc := newService(store, &fakeGateway{orderID: "order_S1"})

	req := verifyRequest("order_S1", "pay_S1", models.CartLine{ProductID: "sku1", Quantity: 3})

	_, err := svc.ConfirmPayment(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(context.Background(), req)
	require.NoError(t, err, "a retry of a processed payment succeeds")

	assert.Len(t, store.orders, 1)
	assert.Equal(t, 2, store.products["sku1"].Stock, "stock decremented exactly once")
}

func TestConfirmPaymentAtomicOnWriteFailure(t *testing.T) {
	store := newFakeStore()
	store.products["sku1"] = &models.Product{ID: "sku1", Name: "Copper Kalash", Price: 200, Stock: 5, Active: true}
	store.createErr = errors.New("write failed")
	svc := newService(store, &fakeGateway{orderID: "order_S1"})

	_, err := svc.ConfirmPayment(context.Background(),
		verifyRequest("order_S1", "pay_S1", models.CartLine{ProductID: "sku1", Quantity: 3}))
	require.Error(t, err)
	assert.Empty(t, store.orders)
	assert.Equal(t, 5, store.products["sku1"].Stock)
}

// Stock consumed by a concurrent buyer between intent creation and
// verification must fail the order rather than drive stock negative.
func TestConfirmPaymentRechecksStock(t *testing.T) {
	store := newFakeStore()
	store.products["sku1"] = &models.Product{ID: "sku1", Name: "Copper Kalash", Price: 200, Stock: 5, Active: true}
	svc := newService(store, &fakeGateway{orderID: "order_S1"})

	_, err := svc.PriceOrder(context.Background(), payload(models.CartLine{ProductID: "sku1", Quantity: 3}))
	require.NoError(t, err)

	store.products["sku1"].Stock = 1 // concurrent buyer took the rest

	_, err = svc.ConfirmPayment(context.Background(),
		verifyRequest("order_S1", "pay_S1", models.CartLine{ProductID: "sku1", Quantity: 3}))
	assert.ErrorIs(t, err, checkout.ErrInsufficientStock)
	assert.Empty(t, store.orders)
	assert.Equal(t, 1, store.products["sku1"].Stock, "stock never goes negative")
}
