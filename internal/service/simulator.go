package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourorg/checkout-kiosk/internal/gateway"
	"github.com/yourorg/checkout-kiosk/internal/models"
)

// simulatedDriver fabricates approved gateway replies without any network
// I/O. Process waits a fixed delay so UI timing resembles a real terminal;
// status and refund calls return immediately.
type simulatedDriver struct {
	delay time.Duration
}

func (d *simulatedDriver) Process(ctx context.Context, req *models.PaymentRequest) (*gateway.APIResponse, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &gateway.APIResponse{
		Status:            "APPROVED",
		TransactionID:     req.TransactionID,
		AuthorizationCode: fmt.Sprintf("AUTH-%06d", now.Unix()%1000000),
		ReferenceNumber:   "REF-" + now.Format("20060102150405"),
		Amount:            req.Amount.StringFixed(2),
		Currency:          req.Currency,
		CardType:          "VISA",
		CardLast4:         "1234",
	}, nil
}

func (d *simulatedDriver) Status(ctx context.Context, transactionID string) (*gateway.APIResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &gateway.APIResponse{
		Status:        "APPROVED",
		TransactionID: transactionID,
	}, nil
}

func (d *simulatedDriver) Refund(ctx context.Context, transactionID string, amount *decimal.Decimal) (*gateway.APIResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	api := &gateway.APIResponse{
		Status:          "APPROVED",
		TransactionID:   transactionID,
		ReferenceNumber: "REF-" + time.Now().UTC().Format("20060102150405"),
	}
	if amount != nil {
		api.Amount = amount.StringFixed(2)
	}
	return api, nil
}

func (d *simulatedDriver) wait(ctx context.Context) error {
	if d.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
