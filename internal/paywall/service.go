// Package paywall implements the core business logic for selling timed
// access to a content item. This is the service/use-case layer in Clean
// Architecture: it composes the settings provider, the coupon validator,
// the pricing engine, and the checkout orchestrator.
package paywall

import (
	"context"

	"go.uber.org/zap"

	"github.com/articlepass/articlepass-checkout/internal/checkout"
	"github.com/articlepass/articlepass-checkout/internal/coupon"
	"github.com/articlepass/articlepass-checkout/internal/domain"
	"github.com/articlepass/articlepass-checkout/internal/pricing"
)

// Defaults are the built-in payment settings used when the content app
// cannot supply them. Falling back keeps the paywall usable instead of
// blocking the user on a settings outage.
type Defaults struct {
	BasePrice float64
	Currency  string
}

// Quote is the price shown in the paywall modal for one item.
type Quote struct {
	ItemID   string              `json:"item_id"`
	Currency string              `json:"currency"`
	Pricing  domain.PricingState `json:"pricing"`
}

// Service implements the paywall business logic.
type Service struct {
	settings     domain.SettingsProvider
	orchestrator *checkout.Orchestrator
	defaults     Defaults
	log          *zap.Logger
}

// NewService creates a new paywall service with the required dependencies.
func NewService(
	settings domain.SettingsProvider,
	orchestrator *checkout.Orchestrator,
	defaults Defaults,
	log *zap.Logger,
) *Service {
	return &Service{
		settings:     settings,
		orchestrator: orchestrator,
		defaults:     defaults,
		log:          log,
	}
}

// GetQuote returns the displayed price for an item with no coupon applied.
// An optional non-negative price override replaces the settings base price.
func (s *Service) GetQuote(ctx context.Context, itemID string, priceOverride *float64) (*Quote, error) {
	settings := s.fetchSettings(ctx, itemID)
	base := basePrice(settings, priceOverride)

	return &Quote{
		ItemID:   itemID,
		Currency: settings.Currency,
		Pricing:  pricing.State(base, nil),
	}, nil
}

// ApplyCoupon validates a user-entered promo code against the item's active
// coupons and returns the recomputed quote. Validation errors (empty or
// unmatched code) are recoverable and shown inline; they never disturb an
// already-applied coupon held by the caller.
func (s *Service) ApplyCoupon(ctx context.Context, itemID, rawCode string, priceOverride *float64) (*Quote, error) {
	settings := s.fetchSettings(ctx, itemID)

	c, err := coupon.Validate(rawCode, settings.ActiveCoupons)
	if err != nil {
		return nil, err
	}

	base := basePrice(settings, priceOverride)
	return &Quote{
		ItemID:   itemID,
		Currency: settings.Currency,
		Pricing:  pricing.State(base, c),
	}, nil
}

// StartCheckout begins one checkout attempt for an item. The coupon code,
// when present, is revalidated against a fresh settings snapshot so the
// charged amount can never drift from the advertised discount.
func (s *Service) StartCheckout(ctx context.Context, itemID, couponCode string, priceOverride *float64) (*checkout.StartResult, error) {
	settings := s.fetchSettings(ctx, itemID)

	var applied *domain.Coupon
	if couponCode != "" {
		c, err := coupon.Validate(couponCode, settings.ActiveCoupons)
		if err != nil {
			return nil, err
		}
		applied = c
	}

	base := basePrice(settings, priceOverride)
	amount := pricing.Compute(base, applied)

	// The gateway runtime is only needed for paid checkouts, but loading it
	// here keeps the free path's ordering guarantee trivially satisfied.
	if amount > 0 {
		if err := s.orchestrator.EnsureGatewayReady(ctx); err != nil {
			return nil, err
		}
	}

	req := checkout.StartRequest{
		ItemID:   itemID,
		Amount:   amount,
		Currency: settings.Currency,
	}
	if applied != nil {
		req.CouponCode = applied.Code
	}

	return s.orchestrator.StartCheckout(ctx, req)
}

// ResolveSuccess forwards the gateway's success callback to the orchestrator.
func (s *Service) ResolveSuccess(ctx context.Context, sessionID, paymentToken string) (*domain.PaymentOutcome, error) {
	return s.orchestrator.ResolveSuccess(ctx, sessionID, paymentToken)
}

// ResolveFailure forwards the gateway's failure callback to the orchestrator.
func (s *Service) ResolveFailure(ctx context.Context, sessionID, providerCode, providerDescription string) (*domain.PaymentOutcome, error) {
	return s.orchestrator.ResolveFailure(ctx, sessionID, providerCode, providerDescription)
}

// ResolveDismiss forwards the widget dismissal to the orchestrator.
func (s *Service) ResolveDismiss(ctx context.Context, sessionID string) (*domain.PaymentOutcome, error) {
	return s.orchestrator.ResolveDismiss(ctx, sessionID)
}

// fetchSettings loads the payment settings snapshot for one modal open.
// A settings outage is non-fatal: the configured defaults with an empty
// coupon list are used instead.
func (s *Service) fetchSettings(ctx context.Context, itemID string) *domain.PaymentSettings {
	settings, err := s.settings.GetPaymentSettings(ctx, itemID)
	if err != nil {
		s.log.Warn("falling back to default payment settings",
			zap.String("item_id", itemID),
			zap.Error(err))
		return &domain.PaymentSettings{
			BasePrice: s.defaults.BasePrice,
			Currency:  s.defaults.Currency,
		}
	}
	return settings
}

func basePrice(settings *domain.PaymentSettings, override *float64) float64 {
	if override != nil && *override >= 0 {
		return *override
	}
	return settings.BasePrice
}
