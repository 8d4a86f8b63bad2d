// Package domain contains the core business entities and interfaces for the
// paywall checkout service. This is the innermost layer of the Clean
// Architecture - it has no dependencies on external frameworks or
// infrastructure.
package domain

// Coupon is a promo code paired with a percentage discount.
// Code is the lookup key; matching is case-insensitive.
type Coupon struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"` // in [0,100]
}

// PaymentSettings is the payment configuration for a content item, fetched
// from the content app once per modal open and treated as an immutable
// snapshot until the modal closes.
type PaymentSettings struct {
	BasePrice     float64  `json:"base_price"` // major currency units, >= 0
	Currency      string   `json:"currency"`   // ISO code, e.g. "INR"
	ActiveCoupons []Coupon `json:"active_coupons"`
}

// PricingState is the recomputed price for one modal lifecycle.
// Invariant: FinalAmount == clamp(roundHalfUp(BasePrice*(1-d/100)), 0, BasePrice)
// where d is the applied coupon's percentage or 0.
type PricingState struct {
	BasePrice     float64 `json:"base_price"`
	AppliedCoupon *Coupon `json:"applied_coupon,omitempty"`
	FinalAmount   int64   `json:"final_amount"` // major currency units
}

// OutcomeStatus tags the PaymentOutcome variant.
type OutcomeStatus string

const (
	OutcomeSuccess    OutcomeStatus = "success"
	OutcomeFailure    OutcomeStatus = "failure"
	OutcomeDismissed  OutcomeStatus = "dismissed"
	OutcomeFreeAccess OutcomeStatus = "free_access"
)

// FailureKind classifies a gateway-reported payment failure.
type FailureKind string

const (
	FailureInvalidRequest FailureKind = "invalid_request"
	FailureGatewayError   FailureKind = "gateway_error"
	FailureNetworkError   FailureKind = "network_error"
	FailureUnknown        FailureKind = "unknown"

	// FailureVerification marks a success callback that lacked a usable
	// payment token. Treated as a failure, not a success, because the
	// state is ambiguous.
	FailureVerification FailureKind = "verification_failed"
)

// FailureInfo is the classified form of a gateway failure payload.
type FailureInfo struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// PaymentOutcome is the single terminal result of one checkout attempt.
// Status selects the variant: Success and FreeAccess carry PaymentToken and
// Amount, Failure carries Failure, Dismissed carries nothing.
type PaymentOutcome struct {
	Status       OutcomeStatus `json:"status"`
	PaymentToken string        `json:"payment_token,omitempty"`
	Amount       int64         `json:"amount"`
	Failure      *FailureInfo  `json:"failure,omitempty"`
}

// FreeTokenPrefix marks locally generated tokens for zero-amount grants so
// downstream storage can tell them apart from gateway-issued tokens without
// inspecting the amount alone.
const FreeTokenPrefix = "free_"

// CheckoutOrder is the request to create an order on the gateway side before
// the hosted widget opens. Amount is in minor currency units (major x100).
type CheckoutOrder struct {
	AmountMinor int64             `json:"amount_minor"`
	Currency    string            `json:"currency"`
	Receipt     string            `json:"receipt"`
	Notes       map[string]string `json:"notes"`
}

// GatewayOrder is the gateway's handle for a created order.
type GatewayOrder struct {
	ID string `json:"id"`
}

// SessionDescriptor is everything the hosted checkout widget needs to open.
// These are pass-through configuration values, not business logic.
type SessionDescriptor struct {
	KeyID          string            `json:"key_id"`
	OrderID        string            `json:"order_id"`
	AmountMinor    int64             `json:"amount_minor"`
	Currency       string            `json:"currency"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Notes          map[string]string `json:"notes"`
	ThemeColor     string            `json:"theme_color"`
	RetryCount     int               `json:"retry_count"`
	TimeoutSeconds int               `json:"timeout_seconds"`
}

// AccessGrant is sent to the content app when an outcome represents a
// successful (paid or free) unlock. The content app owns persistence and the
// access-duration countdown; this service keeps nothing.
type AccessGrant struct {
	ItemID         string `json:"item_id"`
	PaymentToken   string `json:"payment_token"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	AccessDuration string `json:"access_duration"`
	CouponCode     string `json:"coupon_code"` // "none" when no coupon applied
	GrantedAt      string `json:"granted_at"`  // RFC3339
}
