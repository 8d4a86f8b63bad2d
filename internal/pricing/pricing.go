// Package pricing implements the pure price computation for the paywall.
package pricing

import (
	"math"

	"github.com/articlepass/articlepass-checkout/internal/domain"
)

// Compute returns the final amount due, in major currency units, for the
// given base price and optional coupon. The discount is the coupon's
// percentage, or 0 when coupon is nil.
//
// The rounding rule is round-half-up. The result is clamped to
// [0, basePrice], so a discount of exactly 100 always yields 0.
func Compute(basePrice float64, coupon *domain.Coupon) int64 {
	discount := 0.0
	if coupon != nil {
		discount = coupon.DiscountPercent
	}

	amount := int64(math.Floor(basePrice*(1-discount/100) + 0.5))
	if amount < 0 {
		return 0
	}
	if ceiling := int64(math.Floor(basePrice + 0.5)); amount > ceiling {
		return ceiling
	}
	return amount
}

// State builds the PricingState for a base price and optional coupon,
// maintaining the FinalAmount invariant.
func State(basePrice float64, coupon *domain.Coupon) domain.PricingState {
	return domain.PricingState{
		BasePrice:     basePrice,
		AppliedCoupon: coupon,
		FinalAmount:   Compute(basePrice, coupon),
	}
}
