package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/checkout-kiosk/internal/gateway"
	"github.com/yourorg/checkout-kiosk/internal/models"
)

func newDriverTestServer(t *testing.T, capture interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.ContentLength != 0 {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		json.NewEncoder(w).Encode(gateway.APIResponse{Status: "APPROVED"})
	}))
}

func TestLiveDriverProcessPayload(t *testing.T) {
	var gotReq gateway.ProcessRequest
	srv := newDriverTestServer(t, &gotReq)
	defer srv.Close()

	driver := &liveDriver{
		client:     gateway.NewClient(gateway.Config{BaseURL: srv.URL, APIKey: "sk"}),
		merchantID: "M-7",
		terminalID: "T-3",
	}

	customerID := 42
	req := models.NewPaymentRequest("TXN-1", mustDecimal(t, "42.5"), "AED")
	req.CustomerID = &customerID

	_, err := driver.Process(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "M-7", gotReq.MerchantID)
	assert.Equal(t, "T-3", gotReq.TerminalID)
	assert.Equal(t, "TXN-1", gotReq.TransactionID)
	assert.Equal(t, "42.50", gotReq.Amount, "amounts travel as fixed two-decimal strings")
	assert.Equal(t, "AED", gotReq.Currency)
	assert.Equal(t, "Self Checkout Purchase", gotReq.Description)
	assert.Equal(t, "42", gotReq.CustomerID)

	_, err = time.Parse(time.RFC3339Nano, gotReq.Timestamp)
	assert.NoError(t, err, "timestamp must be RFC 3339")
}

func TestLiveDriverProcessKeepsDescription(t *testing.T) {
	var gotReq gateway.ProcessRequest
	srv := newDriverTestServer(t, &gotReq)
	defer srv.Close()

	driver := &liveDriver{client: gateway.NewClient(gateway.Config{BaseURL: srv.URL})}

	req := models.NewPaymentRequest("TXN-2", mustDecimal(t, "10.00"), "AED")
	req.Description = "Self Checkout Purchase - 3 items"

	_, err := driver.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Self Checkout Purchase - 3 items", gotReq.Description)
}

func TestLiveDriverRefundTypes(t *testing.T) {
	t.Run("Full refund omits amount", func(t *testing.T) {
		var gotReq gateway.RefundRequest
		srv := newDriverTestServer(t, &gotReq)
		defer srv.Close()

		driver := &liveDriver{client: gateway.NewClient(gateway.Config{BaseURL: srv.URL})}

		_, err := driver.Refund(context.Background(), "TXN-3", nil)
		require.NoError(t, err)
		assert.Equal(t, "full", gotReq.RefundType)
		assert.Empty(t, gotReq.Amount)
	})

	t.Run("Partial refund carries amount", func(t *testing.T) {
		var gotReq gateway.RefundRequest
		srv := newDriverTestServer(t, &gotReq)
		defer srv.Close()

		driver := &liveDriver{client: gateway.NewClient(gateway.Config{BaseURL: srv.URL})}

		amount := mustDecimal(t, "7.5")
		_, err := driver.Refund(context.Background(), "TXN-4", &amount)
		require.NoError(t, err)
		assert.Equal(t, "partial", gotReq.RefundType)
		assert.Equal(t, "7.50", gotReq.Amount)
	})
}

func TestSimulatedDriverDelay(t *testing.T) {
	driver := &simulatedDriver{delay: 50 * time.Millisecond}

	start := time.Now()
	_, err := driver.Process(context.Background(),
		models.NewPaymentRequest("TXN-5", mustDecimal(t, "10.00"), "AED"))

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
