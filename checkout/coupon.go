package checkout

import (
	"context"
	"fmt"
	"strings"
)

// ApplyCoupon resolves a code against the active coupons and returns the
// discount in rupees for the given subtotal. The threshold check is strict:
// a subtotal equal to the minimum order passes. The discount never exceeds
// the subtotal.
func (s *Service) ApplyCoupon(ctx context.Context, code string, subtotal int) (int, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	coupon, err := s.store.CouponByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if !coupon.Active {
		return 0, fmt.Errorf("%w: %s", ErrCouponNotFound, code)
	}
	if subtotal < coupon.MinOrder {
		return 0, fmt.Errorf("%w: minimum order %d", ErrCouponThreshold, coupon.MinOrder)
	}

	var discount int
	switch coupon.Type {
	case "percentage":
		discount = subtotal * coupon.Value / 100
	default: // fixed
		discount = coupon.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount, nil
}
