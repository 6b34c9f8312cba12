package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts marshal as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusDeclined  PaymentStatus = "declined"
	PaymentStatusError     PaymentStatus = "error"
	PaymentStatusTimeout   PaymentStatus = "timeout"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// ParsePaymentStatus normalizes a gateway status string into the closed
// internal status set. Unknown or empty values map to error.
func ParsePaymentStatus(status string) PaymentStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "APPROVED", "SUCCESS", "COMPLETED":
		return PaymentStatusApproved
	case "DECLINED", "REJECTED", "FAILED":
		return PaymentStatusDeclined
	case "PENDING", "PROCESSING":
		return PaymentStatusPending
	case "TIMEOUT":
		return PaymentStatusTimeout
	case "CANCELLED", "CANCELED", "VOID":
		return PaymentStatusCancelled
	default:
		return PaymentStatusError
	}
}

// PaymentRequest describes a single payment attempt. It is built once per
// checkout attempt and not mutated afterwards.
type PaymentRequest struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Description   string          `json:"description,omitempty"`
	CustomerID    *int            `json:"customer_id,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// NewPaymentRequest creates a payment request stamped with the current UTC time.
func NewPaymentRequest(transactionID string, amount decimal.Decimal, currency string) *PaymentRequest {
	return &PaymentRequest{
		TransactionID: transactionID,
		Amount:        amount,
		Currency:      currency,
		Timestamp:     time.Now().UTC(),
	}
}

// PaymentResponse is the normalized outcome of a gateway operation.
// Success is true if and only if Status is approved; every non-approved
// response carries a non-empty ErrorCode.
type PaymentResponse struct {
	Success           bool            `json:"success"`
	Status            PaymentStatus   `json:"status"`
	TransactionID     string          `json:"transaction_id"`
	AuthorizationCode string          `json:"authorization_code,omitempty"`
	ReferenceNumber   string          `json:"reference_number,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	ErrorMessage      string          `json:"error_message,omitempty"`
	ErrorCode         string          `json:"error_code,omitempty"`
	CardType          string          `json:"card_type,omitempty"`
	CardLast4         string          `json:"card_last4,omitempty"`
	Timestamp         time.Time       `json:"timestamp"`
}
