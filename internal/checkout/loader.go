// Package checkout owns the lifecycle of checkout attempts against the
// hosted payment gateway.
package checkout

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/articlepass/articlepass-checkout/internal/domain"
)

// InitFunc performs the actual gateway runtime initialization, e.g. a
// credential check against the provider.
type InitFunc func(ctx context.Context) error

// Loader guards gateway runtime initialization. The gateway runtime is
// process-wide singleton state; the single-flight group is the one point of
// truth for an in-flight load, so repeated initialization converges to one
// load regardless of call count.
type Loader struct {
	init InitFunc
	sf   singleflight.Group

	mu    sync.Mutex
	ready bool
}

// NewLoader creates a loader around the given initialization function.
func NewLoader(init InitFunc) *Loader {
	return &Loader{init: init}
}

// Ensure makes the gateway runtime ready. It is idempotent: once the
// runtime is ready it returns immediately, and while a load is in flight
// concurrent callers attach to that same load rather than issuing a
// duplicate one. A failed load is not cached, so a later call retries.
func (l *Loader) Ensure(ctx context.Context) error {
	l.mu.Lock()
	if l.ready {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	_, err, _ := l.sf.Do("gateway", func() (interface{}, error) {
		if err := l.init(ctx); err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.ready = true
		l.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		return domain.NewPaymentError(domain.ErrGatewayUnavailable,
			"gateway runtime failed to load",
			"GATEWAY_LOAD_ERROR")
	}
	return nil
}

// Ready reports whether the gateway runtime has loaded.
func (l *Loader) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}
