// Package api contains the HTTP handlers and routing for the paywall
// checkout service.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/articlepass/articlepass-checkout/internal/domain"
	"github.com/articlepass/articlepass-checkout/internal/paywall"
)

// Handler contains the HTTP handlers for the paywall API.
type Handler struct {
	paywallService *paywall.Service
	log            *zap.Logger
}

// NewHandler creates a new API handler with the paywall service.
func NewHandler(paywallService *paywall.Service, log *zap.Logger) *Handler {
	return &Handler{
		paywallService: paywallService,
		log:            log,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// QuoteResponse carries a price quote back to the modal.
type QuoteResponse struct {
	Success bool           `json:"success"`
	Quote   *paywall.Quote `json:"quote"`
}

// GetQuote handles GET /api/v1/paywall/:item
// Returns the displayed price for the item. An optional "price" query
// parameter overrides the settings base price.
func (h *Handler) GetQuote(c *gin.Context) {
	override, ok := priceOverride(c)
	if !ok {
		return
	}

	quote, err := h.paywallService.GetQuote(c.Request.Context(), c.Param("item"), override)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{Success: true, Quote: quote})
}

// CouponRequest represents the JSON body for the coupon endpoint.
type CouponRequest struct {
	Code          string   `json:"code"`
	PriceOverride *float64 `json:"price_override,omitempty"`
}

// ApplyCoupon handles POST /api/v1/paywall/:item/coupon
// Validates the promo code and returns the recomputed quote.
func (h *Handler) ApplyCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	quote, err := h.paywallService.ApplyCoupon(c.Request.Context(), c.Param("item"), req.Code, req.PriceOverride)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{Success: true, Quote: quote})
}

// CheckoutRequest represents the JSON body for the checkout endpoint.
type CheckoutRequest struct {
	CouponCode    string   `json:"coupon_code"`
	PriceOverride *float64 `json:"price_override,omitempty"`
}

// CheckoutResponse represents the response from the checkout endpoint.
// Either Outcome is set (free access resolved immediately) or SessionID
// and Checkout describe the opened widget session.
type CheckoutResponse struct {
	Success   bool                      `json:"success"`
	Outcome   *domain.PaymentOutcome    `json:"outcome,omitempty"`
	SessionID string                    `json:"session_id,omitempty"`
	Checkout  *domain.SessionDescriptor `json:"checkout,omitempty"`
}

// StartCheckout handles POST /api/v1/paywall/:item/checkout
func (h *Handler) StartCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	res, err := h.paywallService.StartCheckout(c.Request.Context(), c.Param("item"), req.CouponCode, req.PriceOverride)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckoutResponse{
		Success:   true,
		Outcome:   res.Outcome,
		SessionID: res.SessionID,
		Checkout:  res.Descriptor,
	})
}

// SuccessCallbackRequest represents the gateway's success payload.
type SuccessCallbackRequest struct {
	PaymentToken string `json:"payment_token"`
}

// OutcomeResponse carries a terminal outcome back to the widget page.
type OutcomeResponse struct {
	Success bool                   `json:"success"`
	Outcome *domain.PaymentOutcome `json:"outcome"`
	Error   string                 `json:"error,omitempty"`
	Code    string                 `json:"code,omitempty"`
}

// ResolveSuccess handles POST /api/v1/checkout/:session_id/success
func (h *Handler) ResolveSuccess(c *gin.Context) {
	var req SuccessCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	outcome, err := h.paywallService.ResolveSuccess(c.Request.Context(), c.Param("session_id"), req.PaymentToken)
	if err != nil {
		if errors.Is(err, domain.ErrVerificationFailed) && outcome != nil {
			// Money may have moved without a confirmed grant; the user is
			// directed to support rather than told to retry.
			c.JSON(http.StatusBadGateway, OutcomeResponse{
				Success: false,
				Outcome: outcome,
				Error:   outcome.Failure.Message,
				Code:    "VERIFICATION_FAILED",
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, OutcomeResponse{Success: true, Outcome: outcome})
}

// FailureCallbackRequest represents the gateway's failure payload.
type FailureCallbackRequest struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ResolveFailure handles POST /api/v1/checkout/:session_id/failure
func (h *Handler) ResolveFailure(c *gin.Context) {
	var req FailureCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Provider error payloads vary in shape; classify what we have.
		h.log.Warn("failure callback parse error", zap.Error(err))
	}

	outcome, err := h.paywallService.ResolveFailure(c.Request.Context(), c.Param("session_id"), req.Code, req.Description)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, OutcomeResponse{Success: true, Outcome: outcome})
}

// ResolveDismiss handles POST /api/v1/checkout/:session_id/dismiss
// Dismissal is not an error: no message is shown to the user.
func (h *Handler) ResolveDismiss(c *gin.Context) {
	outcome, err := h.paywallService.ResolveDismiss(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, OutcomeResponse{Success: true, Outcome: outcome})
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "articlepass-checkout",
		"version": "1.0.0",
	})
}

// handleServiceError maps domain errors onto HTTP responses.
func (h *Handler) handleServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"

	var perr *domain.PaymentError
	if errors.As(err, &perr) && perr.Code != "" {
		code = perr.Code
	}

	switch {
	case errors.Is(err, domain.ErrEmptyCode):
		status, code = http.StatusUnprocessableEntity, "EMPTY_CODE"
	case errors.Is(err, domain.ErrCouponNotFound):
		status, code = http.StatusUnprocessableEntity, "COUPON_NOT_FOUND"
	case errors.Is(err, domain.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotReady), errors.Is(err, domain.ErrGatewayUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrPaymentFailed):
		status = http.StatusBadGateway
	default:
		h.log.Error("unhandled service error", zap.Error(err))
	}

	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Code:    code,
	})
}

// priceOverride parses the optional "price" query parameter. On a malformed
// value it writes the error response and returns ok=false.
func priceOverride(c *gin.Context) (*float64, bool) {
	raw := c.Query("price")
	if raw == "" {
		return nil, true
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "price must be a non-negative number",
			Code:    "VALIDATION_ERROR",
		})
		return nil, false
	}
	return &price, true
}
