package checkout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/articlepass/articlepass-checkout/internal/domain"
)

func TestLoaderEnsureIsIdempotent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	l := NewLoader(func(context.Context) error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, l.Ensure(context.Background()))
	require.NoError(t, l.Ensure(context.Background()))
	require.NoError(t, l.Ensure(context.Background()))

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, l.Ready())
}

func TestLoaderConcurrentEnsureSharesOneLoad(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	release := make(chan struct{})
	l := NewLoader(func(context.Context) error {
		calls.Add(1)
		<-release
		return nil
	})

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.Ensure(context.Background())
		}(i)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestLoaderFailureIsRetryable(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	l := NewLoader(func(context.Context) error {
		if calls.Add(1) == 1 {
			return errors.New("script injection failed")
		}
		return nil
	})

	err := l.Ensure(context.Background())
	require.ErrorIs(t, err, domain.ErrGatewayUnavailable)
	assert.False(t, l.Ready())

	// A later call may retry the load.
	require.NoError(t, l.Ensure(context.Background()))
	assert.True(t, l.Ready())
	assert.Equal(t, int32(2), calls.Load())
}
