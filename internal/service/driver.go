package service

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourorg/checkout-kiosk/internal/gateway"
	"github.com/yourorg/checkout-kiosk/internal/models"
)

const defaultDescription = "Self Checkout Purchase"

// gatewayDriver is the dispatch strategy behind PaymentService. Exactly two
// implementations exist: liveDriver talks to the gateway over HTTP,
// simulatedDriver fabricates approved replies. Both produce wire-level
// responses so the mapping applies uniformly.
type gatewayDriver interface {
	Process(ctx context.Context, req *models.PaymentRequest) (*gateway.APIResponse, error)
	Status(ctx context.Context, transactionID string) (*gateway.APIResponse, error)
	Refund(ctx context.Context, transactionID string, amount *decimal.Decimal) (*gateway.APIResponse, error)
}

type liveDriver struct {
	client     *gateway.Client
	merchantID string
	terminalID string
}

func (d *liveDriver) Process(ctx context.Context, req *models.PaymentRequest) (*gateway.APIResponse, error) {
	description := req.Description
	if description == "" {
		description = defaultDescription
	}

	payload := &gateway.ProcessRequest{
		MerchantID:    d.merchantID,
		TerminalID:    d.terminalID,
		TransactionID: req.TransactionID,
		Amount:        req.Amount.StringFixed(2),
		Currency:      req.Currency,
		Description:   description,
		Timestamp:     req.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if req.CustomerID != nil {
		payload.CustomerID = strconv.Itoa(*req.CustomerID)
	}

	return d.client.ProcessTransaction(ctx, payload)
}

func (d *liveDriver) Status(ctx context.Context, transactionID string) (*gateway.APIResponse, error) {
	return d.client.TransactionStatus(ctx, transactionID)
}

func (d *liveDriver) Refund(ctx context.Context, transactionID string, amount *decimal.Decimal) (*gateway.APIResponse, error) {
	payload := &gateway.RefundRequest{
		TransactionID: transactionID,
		RefundType:    "full",
	}
	if amount != nil {
		payload.Amount = amount.StringFixed(2)
		payload.RefundType = "partial"
	}

	return d.client.RefundTransaction(ctx, transactionID, payload)
}
