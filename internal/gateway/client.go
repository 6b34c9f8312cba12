package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "checkout-kiosk/1.0"
)

// StatusError reports a reply the gateway produced but the adapter cannot
// use: a non-success HTTP status, or a success status with a body that does
// not decode. The raw body is never carried here so it cannot leak upward.
type StatusError struct {
	StatusCode int
	Reason     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway returned HTTP %d %s", e.StatusCode, e.Reason)
}

// Config holds the immutable transport settings resolved at startup.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is a thin HTTP transport for the payment gateway, preconfigured
// with base URL, timeout and bearer credential. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a gateway client. A non-positive timeout falls back to 30s.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ProcessTransaction submits a new transaction to the gateway.
func (c *Client) ProcessTransaction(ctx context.Context, body *ProcessRequest) (*APIResponse, error) {
	return c.do(ctx, http.MethodPost, "/v1/transactions/process", body)
}

// TransactionStatus retrieves the current status of a transaction.
func (c *Client) TransactionStatus(ctx context.Context, transactionID string) (*APIResponse, error) {
	path := fmt.Sprintf("/v1/transactions/%s/status", url.PathEscape(transactionID))
	return c.do(ctx, http.MethodGet, path, nil)
}

// RefundTransaction requests a full or partial refund for a transaction.
func (c *Client) RefundTransaction(ctx context.Context, transactionID string, body *RefundRequest) (*APIResponse, error) {
	path := fmt.Sprintf("/v1/transactions/%s/refund", url.PathEscape(transactionID))
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*APIResponse, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode gateway payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	var api APIResponse
	if len(bytes.TrimSpace(respBody)) == 0 || json.Unmarshal(respBody, &api) != nil {
		// Unusable success reply; classified the same as a gateway error.
		return nil, &StatusError{StatusCode: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	return &api, nil
}
