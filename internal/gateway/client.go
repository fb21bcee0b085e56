// Package gateway talks to the external payment processor.  Orders are
// created over its REST API with basic auth; captured payments are
// authenticated offline via the HMAC signature scheme in signature.go.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Client creates orders with the payment processor.  The zero value is not
// usable; construct with NewClient.
type Client struct {
	keyID   string
	secret  string
	baseURL string
	http    *http.Client
}

// NewClient returns a Client authenticating with the given API key pair.
// baseURL may be empty to use the production endpoint; tests point it at an
// httptest server.
func NewClient(keyID, secret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		keyID:   keyID,
		secret:  secret,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type orderRequest struct {
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID string `json:"id"`
}

// CreateOrder registers a payable order for the given amount in minor units
// and returns the processor's opaque order id.  Non-2xx responses are
// surfaced as errors with the response body for operator diagnosis.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	body, err := json.Marshal(orderRequest{Amount: amountMinor, Currency: currency, Receipt: receipt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway order request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("gateway order failed: status %d: %s", resp.StatusCode, msg)
	}
	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gateway order decode: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("gateway order response missing id")
	}
	return out.ID, nil
}
