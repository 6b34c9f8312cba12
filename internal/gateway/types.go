package gateway

// ProcessRequest is the wire payload for POST /v1/transactions/process.
// Amounts travel as fixed two-decimal strings; the timestamp is RFC 3339.
type ProcessRequest struct {
	MerchantID    string `json:"merchant_id"`
	TerminalID    string `json:"terminal_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Description   string `json:"description"`
	CustomerID    string `json:"customer_id,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// RefundRequest is the wire payload for POST /v1/transactions/{id}/refund.
// Amount is omitted for a full refund.
type RefundRequest struct {
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount,omitempty"`
	RefundType    string `json:"refund_type"`
}

// APIResponse mirrors the gateway's JSON reply. The remote contract is not
// fully trusted, so every field is an optional string. It must be mapped into
// a models.PaymentResponse before being used anywhere else.
type APIResponse struct {
	Status            string `json:"status,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`
	AuthorizationCode string `json:"authorization_code,omitempty"`
	ReferenceNumber   string `json:"reference_number,omitempty"`
	Amount            string `json:"amount,omitempty"`
	Currency          string `json:"currency,omitempty"`
	ErrorMessage      string `json:"error_message,omitempty"`
	ErrorCode         string `json:"error_code,omitempty"`
	CardType          string `json:"card_type,omitempty"`
	CardLast4         string `json:"card_last4,omitempty"`
}
