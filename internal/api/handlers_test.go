package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/articlepass/articlepass-checkout/internal/checkout"
	"github.com/articlepass/articlepass-checkout/internal/domain"
	"github.com/articlepass/articlepass-checkout/internal/paywall"
)

type stubSettings struct{}

func (stubSettings) GetPaymentSettings(context.Context, string) (*domain.PaymentSettings, error) {
	return &domain.PaymentSettings{
		BasePrice: 49,
		Currency:  "INR",
		ActiveCoupons: []domain.Coupon{
			{Code: "SAVE50", DiscountPercent: 50},
			{Code: "FULL100", DiscountPercent: 100},
		},
	}, nil
}

type stubGateway struct{}

func (stubGateway) KeyID() string { return "rzp_test_key" }

func (stubGateway) CreateOrder(context.Context, domain.CheckoutOrder) (*domain.GatewayOrder, error) {
	return &domain.GatewayOrder{ID: "order_1"}, nil
}

type stubNotifier struct {
	grants []domain.AccessGrant
}

func (n *stubNotifier) NotifyAccessGranted(_ context.Context, g domain.AccessGrant) error {
	n.grants = append(n.grants, g)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubNotifier) {
	t.Helper()

	notifier := &stubNotifier{}
	loader := checkout.NewLoader(func(context.Context) error { return nil })
	orch := checkout.NewOrchestrator(checkout.Config{
		DisplayName:    "ArticlePass",
		ThemeColor:     "#1a56db",
		RetryCount:     2,
		Timeout:        5 * time.Minute,
		ExpiryGrace:    time.Minute,
		AccessDuration: "24h",
	}, loader, stubGateway{}, notifier, zap.NewNop())

	svc := paywall.NewService(stubSettings{}, orch,
		paywall.Defaults{BasePrice: 99, Currency: "INR"}, zap.NewNop())

	handler := NewHandler(svc, zap.NewNop())
	return SetupRouter(handler, gin.TestMode, zap.NewNop()), notifier
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w, decoded
}

func TestGetQuote(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	w, body := doJSON(t, router, http.MethodGet, "/api/v1/paywall/article-42", "")

	require.Equal(t, http.StatusOK, w.Code)
	quote := body["quote"].(map[string]interface{})
	pricing := quote["pricing"].(map[string]interface{})
	assert.Equal(t, float64(49), pricing["final_amount"])
	assert.Equal(t, "INR", quote["currency"])
}

func TestGetQuoteRejectsBadPriceOverride(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	w, body := doJSON(t, router, http.MethodGet, "/api/v1/paywall/article-42?price=-3", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestApplyCoupon(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	w, body := doJSON(t, router, http.MethodPost, "/api/v1/paywall/article-42/coupon",
		`{"code":"save50"}`)

	require.Equal(t, http.StatusOK, w.Code)
	quote := body["quote"].(map[string]interface{})
	pricing := quote["pricing"].(map[string]interface{})
	assert.Equal(t, float64(25), pricing["final_amount"])
}

func TestApplyCouponErrors(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/paywall/article-42/coupon",
		`{"code":"  "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "EMPTY_CODE", body["code"])

	w, body = doJSON(t, router, http.MethodPost, "/api/v1/paywall/article-42/coupon",
		`{"code":"NOPE"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "COUPON_NOT_FOUND", body["code"])
}

func TestStartCheckoutFreeAccess(t *testing.T) {
	t.Parallel()

	router, notifier := newTestRouter(t)
	w, body := doJSON(t, router, http.MethodPost, "/api/v1/paywall/article-42/checkout",
		`{"coupon_code":"FULL100"}`)

	require.Equal(t, http.StatusOK, w.Code)
	outcome := body["outcome"].(map[string]interface{})
	assert.Equal(t, "free_access", outcome["status"])
	assert.True(t, strings.HasPrefix(outcome["payment_token"].(string), domain.FreeTokenPrefix))
	assert.Len(t, notifier.grants, 1)
}

func TestStartCheckoutOpensSessionAndRejectsSecond(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/paywall/article-42/checkout", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, body["session_id"])
	co := body["checkout"].(map[string]interface{})
	assert.Equal(t, float64(4900), co["amount_minor"])
	assert.Equal(t, "rzp_test_key", co["key_id"])

	w, body = doJSON(t, router, http.MethodPost, "/api/v1/paywall/article-42/checkout", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "BUSY", body["code"])
}

func TestSuccessCallback(t *testing.T) {
	t.Parallel()

	router, notifier := newTestRouter(t)
	_, body := doJSON(t, router, http.MethodPost, "/api/v1/paywall/article-42/checkout", "")
	sessionID := body["session_id"].(string)

	w, body := doJSON(t, router, http.MethodPost,
		"/api/v1/checkout/"+sessionID+"/success", `{"payment_token":"pay_abc"}`)

	require.Equal(t, http.StatusOK, w.Code)
	outcome := body["outcome"].(map[string]interface{})
	assert.Equal(t, "success", outcome["status"])
	assert.Equal(t, "pay_abc", outcome["payment_token"])
	assert.Len(t, notifier.grants, 1)
}

func TestSuccessCallbackWithoutTokenIsVerificationFailure(t *testing.T) {
	t.Parallel()

	router, notifier := newTestRouter(t)
	_, body := doJSON(t, router, http.MethodPost, "/api/v1/paywall/article-42/checkout", "")
	sessionID := body["session_id"].(string)

	w, body := doJSON(t, router, http.MethodPost,
		"/api/v1/checkout/"+sessionID+"/success", `{"payment_token":""}`)

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "VERIFICATION_FAILED", body["code"])
	outcome := body["outcome"].(map[string]interface{})
	failure := outcome["failure"].(map[string]interface{})
	assert.Equal(t, "verification_failed", failure["kind"])
	assert.Empty(t, notifier.grants)
}

func TestFailureCallbackClassifies(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	_, body := doJSON(t, router, http.MethodPost, "/api/v1/paywall/article-42/checkout", "")
	sessionID := body["session_id"].(string)

	w, body := doJSON(t, router, http.MethodPost,
		"/api/v1/checkout/"+sessionID+"/failure",
		`{"code":"NETWORK_ERROR","description":"socket closed"}`)

	require.Equal(t, http.StatusOK, w.Code)
	outcome := body["outcome"].(map[string]interface{})
	failure := outcome["failure"].(map[string]interface{})
	assert.Equal(t, "network_error", failure["kind"])
}

func TestDismissCallback(t *testing.T) {
	t.Parallel()

	router, notifier := newTestRouter(t)
	_, body := doJSON(t, router, http.MethodPost, "/api/v1/paywall/article-42/checkout", "")
	sessionID := body["session_id"].(string)

	w, body := doJSON(t, router, http.MethodPost,
		"/api/v1/checkout/"+sessionID+"/dismiss", "")

	require.Equal(t, http.StatusOK, w.Code)
	outcome := body["outcome"].(map[string]interface{})
	assert.Equal(t, "dismissed", outcome["status"])
	assert.Empty(t, notifier.grants)
}

func TestCallbackForUnknownSession(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	w, body := doJSON(t, router, http.MethodPost,
		"/api/v1/checkout/nope/dismiss", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", body["code"])
}

func TestHealth(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	w, body := doJSON(t, router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}
