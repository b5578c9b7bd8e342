package checkout_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/checkout"
	"storefront-service/models"
)

func couponService(coupons ...*models.Coupon) *checkout.Service {
	store := newFakeStore()
	for _, c := range coupons {
		store.coupons[c.Code] = c
	}
	return newService(store, &fakeGateway{orderID: "order_C"})
}

func TestApplyCouponThresholdBoundary(t *testing.T) {
	svc := couponService(&models.Coupon{Code: "SAVE10", Type: "percentage", Value: 10, MinOrder: 1000, Active: true})

	_, err := svc.ApplyCoupon(context.Background(), "SAVE10", 999)
	assert.ErrorIs(t, err, checkout.ErrCouponThreshold)

	discount, err := svc.ApplyCoupon(context.Background(), "SAVE10", 1000)
	require.NoError(t, err)
	assert.Equal(t, 100, discount)
}

func TestApplyCouponPercentage(t *testing.T) {
	svc := couponService(&models.Coupon{Code: "SAVE10", Type: "percentage", Value: 10, Active: true})

	discount, err := svc.ApplyCoupon(context.Background(), "SAVE10", 550)
	require.NoError(t, err)
	assert.Equal(t, 55, discount)
}

func TestApplyCouponFixedClampedToSubtotal(t *testing.T) {
	svc := couponService(&models.Coupon{Code: "FLAT500", Type: "fixed", Value: 500, Active: true})

	discount, err := svc.ApplyCoupon(context.Background(), "FLAT500", 300)
	require.NoError(t, err)
	assert.Equal(t, 300, discount, "discount never exceeds the subtotal")
}

func TestApplyCouponCaseInsensitive(t *testing.T) {
	svc := couponService(&models.Coupon{Code: "SAVE10", Type: "percentage", Value: 10, Active: true})

	discount, err := svc.ApplyCoupon(context.Background(), "  save10 ", 200)
	require.NoError(t, err)
	assert.Equal(t, 20, discount)
}

func TestApplyCouponUnknownCode(t *testing.T) {
	svc := couponService()

	_, err := svc.ApplyCoupon(context.Background(), "NOPE", 500)
	assert.ErrorIs(t, err, checkout.ErrCouponNotFound)
}

func TestApplyCouponInactive(t *testing.T) {
	svc := couponService(&models.Coupon{Code: "OLD", Type: "fixed", Value: 50, Active: false})

	_, err := svc.ApplyCoupon(context.Background(), "OLD", 500)
	assert.ErrorIs(t, err, checkout.ErrCouponNotFound)
}
