package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTransaction(t *testing.T) {
	var gotReq ProcessRequest
	var gotAuth, gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/transactions/process", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(APIResponse{
			Status:            "APPROVED",
			TransactionID:     gotReq.TransactionID,
			AuthorizationCode: "AUTH-123",
			Amount:            gotReq.Amount,
			Currency:          gotReq.Currency,
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "sk_test_key"})

	api, err := client.ProcessTransaction(context.Background(), &ProcessRequest{
		MerchantID:    "M-1",
		TerminalID:    "T-1",
		TransactionID: "TXN-1",
		Amount:        "42.50",
		Currency:      "AED",
		Description:   "Self Checkout Purchase",
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer sk_test_key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "M-1", gotReq.MerchantID)
	assert.Equal(t, "T-1", gotReq.TerminalID)
	assert.Equal(t, "42.50", gotReq.Amount)
	assert.Equal(t, "APPROVED", api.Status)
	assert.Equal(t, "AUTH-123", api.AuthorizationCode)
}

func TestNoAuthorizationWithoutAPIKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(APIResponse{Status: "APPROVED"})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.TransactionStatus(context.Background(), "TXN-1")

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestTransactionStatusPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(APIResponse{Status: "PENDING", TransactionID: "TXN-42"})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	api, err := client.TransactionStatus(context.Background(), "TXN-42")

	require.NoError(t, err)
	assert.Equal(t, "/v1/transactions/TXN-42/status", gotPath)
	assert.Equal(t, "PENDING", api.Status)
}

func TestRefundTransactionPayload(t *testing.T) {
	var gotReq RefundRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transactions/TXN-9/refund", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(APIResponse{Status: "APPROVED", TransactionID: "TXN-9"})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.RefundTransaction(context.Background(), "TXN-9", &RefundRequest{
		TransactionID: "TXN-9",
		Amount:        "5.00",
		RefundType:    "partial",
	})

	require.NoError(t, err)
	assert.Equal(t, "partial", gotReq.RefundType)
	assert.Equal(t, "5.00", gotReq.Amount)
}

func TestNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.TransactionStatus(context.Background(), "TXN-1")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "Service Unavailable", statusErr.Reason)
	assert.NotContains(t, statusErr.Error(), "upstream busy", "raw gateway bodies must not leak")
}

func TestUnusableSuccessBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "Empty body",
			body: "",
		},
		{
			name: "Invalid JSON",
			body: "<html>not json</html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(Config{BaseURL: srv.URL})
			_, err := client.TransactionStatus(context.Background(), "TXN-1")

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, http.StatusOK, statusErr.StatusCode)
		})
	}
}

func TestUnknownFieldsTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"APPROVED","surprise_field":"value","nested":{"a":1}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	api, err := client.TransactionStatus(context.Background(), "TXN-1")

	require.NoError(t, err)
	assert.Equal(t, "APPROVED", api.Status)
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.TransactionStatus(context.Background(), "TXN-1")

	var urlErr *url.Error
	assert.ErrorAs(t, err, &urlErr)
}

func TestCallerCancellation(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.TransactionStatus(ctx, "TXN-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
