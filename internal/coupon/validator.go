// Package coupon implements promo code validation against the active
// coupon list supplied by the content app.
package coupon

import (
	"strings"

	"github.com/articlepass/articlepass-checkout/internal/domain"
)

// Validate looks up a user-entered promo code in the available coupons.
//
// The raw code is trimmed first; an empty result yields ErrEmptyCode before
// any lookup. Matching is a case-insensitive exact match on the coupon code,
// no partial or fuzzy matching. If duplicates exist the first match wins
// (duplicate codes are a configuration issue upstream, not corrected here).
func Validate(rawCode string, available []domain.Coupon) (*domain.Coupon, error) {
	code := strings.TrimSpace(rawCode)
	if code == "" {
		return nil, domain.ErrEmptyCode
	}

	for i := range available {
		if strings.EqualFold(available[i].Code, code) {
			c := available[i]
			return &c, nil
		}
	}
	return nil, domain.ErrCouponNotFound
}
