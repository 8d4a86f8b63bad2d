// Package razorpay implements the CheckoutGateway interface using the
// Razorpay Go SDK. The hosted Checkout widget opens against orders created
// here; amounts are already in minor units when they reach this adapter.
package razorpay

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/articlepass/articlepass-checkout/internal/domain"
)

// Adapter implements the domain.CheckoutGateway interface using the
// Razorpay SDK.
type Adapter struct {
	client *razorpay.Client
	keyID  string
}

// NewAdapter creates a new Razorpay adapter with the given credentials.
func NewAdapter(keyID, keySecret string) *Adapter {
	return &Adapter{
		client: razorpay.NewClient(keyID, keySecret),
		keyID:  keyID,
	}
}

// KeyID returns the public key the hosted widget authenticates with.
func (a *Adapter) KeyID() string {
	return a.keyID
}

// Init verifies the credentials with a lightweight API call. Used as the
// gateway loader's initialization step; the SDK itself has no handshake.
func (a *Adapter) Init(_ context.Context) error {
	if _, err := a.client.Order.All(map[string]interface{}{"count": 1}, nil); err != nil {
		return fmt.Errorf("razorpay credential check failed: %w", err)
	}
	return nil
}

// CreateOrder registers a checkout order with Razorpay. The order id is
// what the hosted widget opens against.
func (a *Adapter) CreateOrder(_ context.Context, order domain.CheckoutOrder) (*domain.GatewayOrder, error) {
	notes := make(map[string]interface{}, len(order.Notes))
	for k, v := range order.Notes {
		notes[k] = v
	}

	data := map[string]interface{}{
		"amount":   order.AmountMinor,
		"currency": order.Currency,
		"receipt":  order.Receipt,
		"notes":    notes,
	}

	body, err := a.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	return &domain.GatewayOrder{ID: id}, nil
}
