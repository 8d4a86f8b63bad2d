// Package contentcore implements the SettingsProvider and GrantNotifier
// interfaces by communicating with the content application's internal API.
package contentcore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/articlepass/articlepass-checkout/internal/domain"
)

// Client implements domain.SettingsProvider and domain.GrantNotifier by
// making HTTP requests to the content app.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new content-core client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// paymentSettingsResponse represents the JSON response from the content app.
type paymentSettingsResponse struct {
	BasePrice float64 `json:"base_price"`
	Currency  string  `json:"currency"`
	Coupons   []struct {
		Code            string  `json:"code"`
		DiscountPercent float64 `json:"discount_percent"`
	} `json:"coupons"`
}

// GetPaymentSettings fetches the payment settings for a content item.
// Any failure maps to ErrSettingsUnavailable so callers can fall back to
// their built-in defaults.
func (c *Client) GetPaymentSettings(ctx context.Context, itemID string) (*domain.PaymentSettings, error) {
	url := fmt.Sprintf("%s/api/internal/items/%s/payment-settings/", c.baseURL, itemID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Internal-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSettingsUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status %d: %s",
			domain.ErrSettingsUnavailable, resp.StatusCode, string(body))
	}

	var settingsResp paymentSettingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&settingsResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v",
			domain.ErrSettingsUnavailable, err)
	}

	settings := &domain.PaymentSettings{
		BasePrice: settingsResp.BasePrice,
		Currency:  settingsResp.Currency,
	}
	for _, c := range settingsResp.Coupons {
		settings.ActiveCoupons = append(settings.ActiveCoupons, domain.Coupon{
			Code:            c.Code,
			DiscountPercent: c.DiscountPercent,
		})
	}
	return settings, nil
}

// NotifyAccessGranted sends the grant to the content app. The content app
// persists the grant and starts the access-duration countdown.
func (c *Client) NotifyAccessGranted(ctx context.Context, grant domain.AccessGrant) error {
	url := fmt.Sprintf("%s/api/internal/access-grants/", c.baseURL)

	jsonBody, err := json.Marshal(grant)
	if err != nil {
		return fmt.Errorf("failed to marshal grant: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Internal-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("content app returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
