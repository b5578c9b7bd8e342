package checkout

import "errors"

var (
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrPaymentGateway     = errors.New("payment gateway error")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponThreshold    = errors.New("coupon minimum order not met")

	// ErrAlreadyProcessed is returned by the store when an order with the
	// same gateway order id has already been persisted.
	ErrAlreadyProcessed = errors.New("order already processed")
)
