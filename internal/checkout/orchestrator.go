package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/articlepass/articlepass-checkout/internal/classify"
	"github.com/articlepass/articlepass-checkout/internal/domain"
)

// State is the orchestrator's position in the checkout lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateReady       State = "ready"
	StateSessionOpen State = "session_open"
)

// Config holds pass-through configuration for gateway sessions.
type Config struct {
	DisplayName    string        // shown in the widget header
	ThemeColor     string        // widget theme, e.g. "#1a56db"
	RetryCount     int           // bounded retries for transient gateway issues
	Timeout        time.Duration // gateway-side session timeout
	ExpiryGrace    time.Duration // server-side slack past Timeout before an abandoned session is discarded
	AccessDuration string        // access-duration tag carried in order notes
}

// StartRequest describes one checkout attempt.
type StartRequest struct {
	ItemID     string
	Amount     int64 // major currency units
	Currency   string
	CouponCode string // empty when no coupon applied
}

// StartResult is the immediate result of StartCheckout. On the free-access
// path Outcome is set and no session exists; otherwise SessionID and
// Descriptor describe the opened gateway session.
type StartResult struct {
	Outcome    *domain.PaymentOutcome
	SessionID  string
	Descriptor *domain.SessionDescriptor
}

// session is the ephemeral state of one open gateway session. It exists
// only between StartCheckout and the terminal resolution.
type session struct {
	id         string
	itemID     string
	amount     int64
	currency   string
	couponCode string
	expiry     *time.Timer
}

// Orchestrator owns the lifecycle of one checkout attempt: it ensures the
// gateway is ready, opens at most one session at a time, and resolves each
// session to exactly one outcome.
type Orchestrator struct {
	cfg      Config
	loader   *Loader
	gateway  domain.CheckoutGateway
	notifier domain.GrantNotifier
	log      *zap.Logger

	mu   sync.Mutex
	sess *session
}

// NewOrchestrator creates a checkout orchestrator with the required
// dependencies.
func NewOrchestrator(
	cfg Config,
	loader *Loader,
	gateway domain.CheckoutGateway,
	notifier domain.GrantNotifier,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		loader:   loader,
		gateway:  gateway,
		notifier: notifier,
		log:      log,
	}
}

// EnsureGatewayReady loads the gateway runtime if it is not ready yet.
// Safe to call any number of times; concurrent calls share one load.
func (o *Orchestrator) EnsureGatewayReady(ctx context.Context) error {
	return o.loader.Ensure(ctx)
}

// CurrentState reports where the orchestrator is in its lifecycle.
func (o *Orchestrator) CurrentState() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sess != nil {
		return StateSessionOpen
	}
	if o.loader.Ready() {
		return StateReady
	}
	return StateIdle
}

// StartCheckout begins one checkout attempt.
//
// An amount of 0 bypasses the gateway entirely: a FreeAccess outcome with a
// locally generated token is produced and the grant notifier fires before
// the call returns. Otherwise exactly one gateway session is opened.
// Preconditions: the gateway must be ready (ErrNotReady) and no session may
// be open (ErrBusy); violations are rejected, never queued.
func (o *Orchestrator) StartCheckout(ctx context.Context, req StartRequest) (*StartResult, error) {
	o.mu.Lock()
	if o.sess != nil {
		o.mu.Unlock()
		return nil, domain.NewPaymentError(domain.ErrBusy,
			"another checkout is in progress",
			"BUSY")
	}
	o.mu.Unlock()

	// Free unlock: no gateway involvement at all.
	if req.Amount == 0 {
		outcome := o.freeAccessOutcome(ctx, req)
		return &StartResult{Outcome: outcome}, nil
	}

	if !o.loader.Ready() {
		return nil, domain.NewPaymentError(domain.ErrNotReady,
			"gateway runtime has not loaded",
			"NOT_READY")
	}

	sessionID := uuid.NewString()
	notes := map[string]string{
		"item_id":         req.ItemID,
		"access_duration": o.cfg.AccessDuration,
		"coupon":          couponNote(req.CouponCode),
		"session_id":      sessionID,
	}

	order, err := o.gateway.CreateOrder(ctx, domain.CheckoutOrder{
		AmountMinor: req.Amount * 100,
		Currency:    req.Currency,
		Receipt:     sessionID,
		Notes:       notes,
	})
	if err != nil {
		o.log.Error("gateway order creation failed",
			zap.String("item_id", req.ItemID),
			zap.Error(err))
		return nil, domain.NewPaymentError(domain.ErrPaymentFailed,
			"failed to create gateway order",
			"GATEWAY_ERROR")
	}

	descriptor := &domain.SessionDescriptor{
		KeyID:          o.gateway.KeyID(),
		OrderID:        order.ID,
		AmountMinor:    req.Amount * 100,
		Currency:       req.Currency,
		Name:           o.cfg.DisplayName,
		Description:    fmt.Sprintf("Timed access to %s", req.ItemID),
		Notes:          notes,
		ThemeColor:     o.cfg.ThemeColor,
		RetryCount:     o.cfg.RetryCount,
		TimeoutSeconds: int(o.cfg.Timeout / time.Second),
	}

	s := &session{
		id:         sessionID,
		itemID:     req.ItemID,
		amount:     req.Amount,
		currency:   req.Currency,
		couponCode: req.CouponCode,
	}
	// The widget enforces its own timeout client-side; the server-side timer
	// only reclaims sessions whose page never reported back.
	s.expiry = time.AfterFunc(o.cfg.Timeout+o.cfg.ExpiryGrace, func() {
		o.expire(sessionID)
	})

	o.mu.Lock()
	if o.sess != nil {
		// Lost the race to a concurrent StartCheckout.
		o.mu.Unlock()
		s.expiry.Stop()
		return nil, domain.NewPaymentError(domain.ErrBusy,
			"another checkout is in progress",
			"BUSY")
	}
	o.sess = s
	o.mu.Unlock()

	o.log.Info("checkout session opened",
		zap.String("session_id", sessionID),
		zap.String("item_id", req.ItemID),
		zap.Int64("amount", req.Amount),
		zap.String("order_id", order.ID))

	return &StartResult{SessionID: sessionID, Descriptor: descriptor}, nil
}

// ResolveSuccess handles the gateway's success callback. The payload is
// validated for a non-empty payment token: present yields Success, absent
// yields a verification failure because the state is ambiguous.
func (o *Orchestrator) ResolveSuccess(ctx context.Context, sessionID, paymentToken string) (*domain.PaymentOutcome, error) {
	s, err := o.takeSession(sessionID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(paymentToken) == "" {
		o.log.Error("success callback without payment token",
			zap.String("session_id", s.id),
			zap.String("item_id", s.itemID))
		return &domain.PaymentOutcome{
			Status: domain.OutcomeFailure,
			Failure: &domain.FailureInfo{
				Kind:    domain.FailureVerification,
				Message: "We could not verify your payment. Please contact support.",
			},
		}, domain.NewPaymentError(domain.ErrVerificationFailed,
			"success payload lacked a payment token",
			"VERIFICATION_FAILED")
	}

	outcome := &domain.PaymentOutcome{
		Status:       domain.OutcomeSuccess,
		PaymentToken: paymentToken,
		Amount:       s.amount,
	}

	o.log.Info("checkout completed",
		zap.String("session_id", s.id),
		zap.String("item_id", s.itemID),
		zap.Int64("amount", s.amount))

	o.notifyGrant(ctx, s.itemID, s.currency, s.couponCode, outcome)
	return outcome, nil
}

// ResolveFailure handles the gateway's failure callback. The raw provider
// code and description are classified into the domain failure taxonomy; the
// terminal callback is never swallowed.
func (o *Orchestrator) ResolveFailure(_ context.Context, sessionID, providerCode, providerDescription string) (*domain.PaymentOutcome, error) {
	s, err := o.takeSession(sessionID)
	if err != nil {
		return nil, err
	}

	info := classify.Failure(providerCode, providerDescription)
	o.log.Warn("checkout failed",
		zap.String("session_id", s.id),
		zap.String("item_id", s.itemID),
		zap.String("provider_code", providerCode),
		zap.String("kind", string(info.Kind)))

	return &domain.PaymentOutcome{
		Status:  domain.OutcomeFailure,
		Failure: &info,
	}, nil
}

// ResolveDismiss handles the user closing the widget without completing.
// Not an error: no message is shown and the orchestrator returns to idle.
func (o *Orchestrator) ResolveDismiss(_ context.Context, sessionID string) (*domain.PaymentOutcome, error) {
	s, err := o.takeSession(sessionID)
	if err != nil {
		return nil, err
	}

	o.log.Info("checkout dismissed",
		zap.String("session_id", s.id),
		zap.String("item_id", s.itemID))

	return &domain.PaymentOutcome{Status: domain.OutcomeDismissed}, nil
}

// takeSession removes and returns the live session if it matches sessionID.
// Once taken the session is terminal: no later callback for it can resolve
// again, which is what guarantees at most one outcome per session.
func (o *Orchestrator) takeSession(sessionID string) (*session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess == nil || o.sess.id != sessionID {
		return nil, domain.NewPaymentError(domain.ErrSessionNotFound,
			"no open session matches this callback",
			"SESSION_NOT_FOUND")
	}
	s := o.sess
	o.sess = nil
	s.expiry.Stop()
	return s, nil
}

// expire reclaims a session whose page never reported a terminal callback,
// resolving it as dismissed so the one-resolution guarantee holds.
func (o *Orchestrator) expire(sessionID string) {
	o.mu.Lock()
	if o.sess == nil || o.sess.id != sessionID {
		o.mu.Unlock()
		return
	}
	s := o.sess
	o.sess = nil
	o.mu.Unlock()

	o.log.Warn("checkout session expired without a callback",
		zap.String("session_id", s.id),
		zap.String("item_id", s.itemID))
}

// freeAccessOutcome produces the FreeAccess outcome for a zero amount. The
// token carries the reserved free prefix plus a generated suffix so
// downstream storage can tell free grants from paid ones.
func (o *Orchestrator) freeAccessOutcome(ctx context.Context, req StartRequest) *domain.PaymentOutcome {
	outcome := &domain.PaymentOutcome{
		Status:       domain.OutcomeFreeAccess,
		PaymentToken: domain.FreeTokenPrefix + uuid.NewString(),
		Amount:       0,
	}

	o.log.Info("free access granted without gateway session",
		zap.String("item_id", req.ItemID),
		zap.String("coupon", couponNote(req.CouponCode)))

	o.notifyGrant(ctx, req.ItemID, req.Currency, req.CouponCode, outcome)
	return outcome
}

// notifyGrant fires the grant notifier for a Success or FreeAccess outcome.
// The outcome is already terminal here; a notify error is logged, not
// propagated, so the gateway callback is acknowledged and not retried.
func (o *Orchestrator) notifyGrant(ctx context.Context, itemID, currency, couponCode string, outcome *domain.PaymentOutcome) {
	grant := domain.AccessGrant{
		ItemID:         itemID,
		PaymentToken:   outcome.PaymentToken,
		Amount:         outcome.Amount,
		Currency:       currency,
		AccessDuration: o.cfg.AccessDuration,
		CouponCode:     couponNote(couponCode),
		GrantedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	if err := o.notifier.NotifyAccessGranted(ctx, grant); err != nil {
		o.log.Error("failed to notify content app of access grant",
			zap.String("item_id", itemID),
			zap.String("payment_token", outcome.PaymentToken),
			zap.Error(err))
	}
}

func couponNote(code string) string {
	if code == "" {
		return "none"
	}
	return code
}
