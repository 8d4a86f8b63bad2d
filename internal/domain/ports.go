// Package domain contains the core business entities and interfaces for the
// paywall checkout service.
package domain

import "context"

// SettingsProvider defines the interface for fetching payment settings.
// This is a "port" in hexagonal architecture - the domain defines what it
// needs, and infrastructure provides the implementation.
type SettingsProvider interface {
	// GetPaymentSettings retrieves the payment settings for a content item.
	// Returns ErrSettingsUnavailable when the content app cannot answer;
	// callers fall back to built-in defaults rather than blocking the user.
	GetPaymentSettings(ctx context.Context, itemID string) (*PaymentSettings, error)
}

// CheckoutGateway defines the interface for the hosted payment gateway.
// This abstracts away the provider SDK usage.
type CheckoutGateway interface {
	// KeyID returns the public key the hosted widget authenticates with.
	KeyID() string

	// CreateOrder registers a checkout order with the gateway and returns
	// its handle. The hosted widget opens against this order.
	CreateOrder(ctx context.Context, order CheckoutOrder) (*GatewayOrder, error)
}

// GrantNotifier defines the interface for telling the content app that
// access has been granted. Invoked exactly once per Success or FreeAccess
// outcome, never for Failure or Dismissed.
type GrantNotifier interface {
	// NotifyAccessGranted sends the grant to the content app, which
	// persists it and starts the access-duration countdown.
	NotifyAccessGranted(ctx context.Context, grant AccessGrant) error
}
