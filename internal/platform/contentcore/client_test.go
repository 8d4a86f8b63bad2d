package contentcore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/articlepass/articlepass-checkout/internal/domain"
)

func TestGetPaymentSettings(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/internal/items/article-42/payment-settings/", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Internal-API-Key"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"base_price": 49,
			"currency":   "INR",
			"coupons": []map[string]interface{}{
				{"code": "SAVE50", "discount_percent": 50},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	settings, err := c.GetPaymentSettings(context.Background(), "article-42")
	require.NoError(t, err)

	assert.Equal(t, 49.0, settings.BasePrice)
	assert.Equal(t, "INR", settings.Currency)
	require.Len(t, settings.ActiveCoupons, 1)
	assert.Equal(t, "SAVE50", settings.ActiveCoupons[0].Code)
	assert.Equal(t, 50.0, settings.ActiveCoupons[0].DiscountPercent)
}

func TestGetPaymentSettingsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	_, err := c.GetPaymentSettings(context.Background(), "article-42")
	assert.ErrorIs(t, err, domain.ErrSettingsUnavailable)
}

func TestGetPaymentSettingsConnectionRefused(t *testing.T) {
	t.Parallel()

	c := NewClient("http://127.0.0.1:1", "secret")
	_, err := c.GetPaymentSettings(context.Background(), "article-42")
	assert.ErrorIs(t, err, domain.ErrSettingsUnavailable)
}

func TestNotifyAccessGranted(t *testing.T) {
	t.Parallel()

	var received domain.AccessGrant
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/internal/access-grants/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.NotifyAccessGranted(context.Background(), domain.AccessGrant{
		ItemID:         "article-42",
		PaymentToken:   "pay_123",
		Amount:         25,
		Currency:       "INR",
		AccessDuration: "24h",
		CouponCode:     "SAVE50",
	})
	require.NoError(t, err)

	assert.Equal(t, "article-42", received.ItemID)
	assert.Equal(t, "pay_123", received.PaymentToken)
	assert.Equal(t, int64(25), received.Amount)
}

func TestNotifyAccessGrantedServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.NotifyAccessGranted(context.Background(), domain.AccessGrant{ItemID: "article-42"})
	assert.Error(t, err)
}
