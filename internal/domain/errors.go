// Package domain contains the core business entities and interfaces for the
// paywall checkout service.
package domain

import "errors"

// Domain errors represent business rule violations.
// These are used to communicate specific error conditions from the domain layer.
var (
	// ErrSettingsUnavailable is returned when the content app cannot supply
	// payment settings. Non-fatal: callers fall back to configured defaults.
	ErrSettingsUnavailable = errors.New("payment settings unavailable")

	// ErrEmptyCode is returned when a promo code is empty after trimming.
	ErrEmptyCode = errors.New("promo code is empty")

	// ErrCouponNotFound is returned when a promo code matches no active coupon.
	ErrCouponNotFound = errors.New("promo code not found")

	// ErrGatewayUnavailable is returned when the gateway runtime failed to
	// load. Recoverable: a later checkout attempt retries the load.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrNotReady is returned when startCheckout is called before the
	// gateway runtime is ready.
	ErrNotReady = errors.New("payment gateway not ready")

	// ErrBusy is returned when startCheckout is called while another
	// session is still open. Concurrent attempts are rejected, never queued.
	ErrBusy = errors.New("a checkout session is already open")

	// ErrSessionNotFound is returned when a gateway callback references a
	// session that does not exist or was already resolved.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrVerificationFailed is returned when a success callback lacked a
	// usable payment token. Money may have moved without a confirmed grant,
	// so this directs the user to contact support.
	ErrVerificationFailed = errors.New("payment could not be verified")

	// ErrPaymentFailed is the base error for gateway-reported payment
	// failures; the classified kind and message travel in the PaymentError.
	ErrPaymentFailed = errors.New("payment failed")
)

// PaymentError wraps a domain error with additional context.
type PaymentError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface.
func (e *PaymentError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap allows errors.Is and errors.As to work with PaymentError.
func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new PaymentError with the given error and message.
func NewPaymentError(err error, message, code string) *PaymentError {
	return &PaymentError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}
