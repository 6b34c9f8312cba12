package service

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yourorg/checkout-kiosk/internal/gateway"
	"github.com/yourorg/checkout-kiosk/internal/metrics"
	"github.com/yourorg/checkout-kiosk/internal/models"
)

// Error codes surfaced on PaymentResponse.ErrorCode.
const (
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeInvalidAmount     = "INVALID_AMOUNT"
	ErrCodeConnectionError   = "CONNECTION_ERROR"
	ErrCodeProcessingError   = "PROCESSING_ERROR"
	ErrCodeStatusCheckFailed = "STATUS_CHECK_FAILED"
	ErrCodeStatusCheckError  = "STATUS_CHECK_ERROR"
	ErrCodeRefundFailed      = "REFUND_FAILED"
	ErrCodeRefundError       = "REFUND_ERROR"
)

// PaymentConfig holds the gateway settings resolved once at startup.
type PaymentConfig struct {
	BaseURL         string
	APIKey          string
	MerchantID      string
	TerminalID      string
	DefaultCurrency string
	Timeout         time.Duration
	Simulate        bool
	SimulatedDelay  time.Duration
}

// PaymentService integrates with the payment gateway. Every operation
// returns a well-formed PaymentResponse; failures are classified into error
// codes, never propagated to the caller. Stateless, safe for concurrent use.
type PaymentService struct {
	driver          gatewayDriver
	logger          *zap.Logger
	defaultCurrency string
	simulated       bool
}

// NewPaymentService resolves the dispatch mode once and builds the matching
// driver. Live mode without a configured API key is downgraded to simulation;
// the downgrade is logged loudly so operators notice the misconfiguration.
func NewPaymentService(cfg PaymentConfig, logger *zap.Logger) *PaymentService {
	simulated := cfg.Simulate
	if !simulated && cfg.APIKey == "" {
		logger.Warn("live gateway mode requested but no API key is configured; " +
			"downgrading to simulation mode — payments will NOT reach the gateway")
		simulated = true
	}

	currency := cfg.DefaultCurrency
	if currency == "" {
		currency = "AED"
	}

	var driver gatewayDriver
	if simulated {
		delay := cfg.SimulatedDelay
		if delay <= 0 {
			delay = 2 * time.Second
		}
		driver = &simulatedDriver{delay: delay}
	} else {
		driver = &liveDriver{
			client: gateway.NewClient(gateway.Config{
				BaseURL: cfg.BaseURL,
				APIKey:  cfg.APIKey,
				Timeout: cfg.Timeout,
			}),
			merchantID: cfg.MerchantID,
			terminalID: cfg.TerminalID,
		}
	}

	logger.Info("payment gateway mode selected",
		zap.Bool("simulated", simulated),
		zap.String("default_currency", currency))

	return &PaymentService{
		driver:          driver,
		logger:          logger,
		defaultCurrency: currency,
		simulated:       simulated,
	}
}

// Simulated reports whether the service fabricates gateway responses.
func (s *PaymentService) Simulated() bool {
	return s.simulated
}

// ProcessPayment submits a payment attempt. Requests failing local validation
// are rejected before any transport call.
func (s *PaymentService) ProcessPayment(ctx context.Context, req *models.PaymentRequest) *models.PaymentResponse {
	s.logger.Info("processing payment",
		zap.String("transaction_id", req.TransactionID),
		zap.String("amount", req.Amount.String()),
		zap.String("currency", req.Currency))

	if strings.TrimSpace(req.TransactionID) == "" {
		s.logger.Warn("payment rejected", zap.String("error_code", ErrCodeInvalidRequest))
		return s.errorResponse("Transaction ID is required", ErrCodeInvalidRequest)
	}
	if !req.Amount.IsPositive() {
		s.logger.Warn("payment rejected",
			zap.String("transaction_id", req.TransactionID),
			zap.String("error_code", ErrCodeInvalidAmount))
		return s.errorResponse("Amount must be greater than zero", ErrCodeInvalidAmount)
	}

	timer := prometheus.NewTimer(metrics.GatewayLatency.WithLabelValues("process"))
	api, err := s.driver.Process(ctx, req)
	timer.ObserveDuration()

	var resp *models.PaymentResponse
	if err != nil {
		resp = s.classifyProcessError(err, req.TransactionID)
	} else {
		resp = s.mapResponse(api, req)
		if resp.Success {
			s.logger.Info("payment approved",
				zap.String("transaction_id", resp.TransactionID),
				zap.String("authorization_code", resp.AuthorizationCode))
		} else {
			s.logger.Warn("payment not approved",
				zap.String("transaction_id", resp.TransactionID),
				zap.String("status", string(resp.Status)),
				zap.String("error_code", resp.ErrorCode))
		}
	}

	metrics.PaymentsTotal.WithLabelValues(string(resp.Status), s.mode()).Inc()
	return resp
}

// CheckStatus retrieves the current status of a transaction. No validation is
// needed here since no new money movement occurs.
func (s *PaymentService) CheckStatus(ctx context.Context, transactionID string) *models.PaymentResponse {
	s.logger.Info("checking payment status", zap.String("transaction_id", transactionID))

	timer := prometheus.NewTimer(metrics.GatewayLatency.WithLabelValues("status"))
	api, err := s.driver.Status(ctx, transactionID)
	timer.ObserveDuration()

	if err != nil {
		var statusErr *gateway.StatusError
		if errors.As(err, &statusErr) {
			s.logger.Error("status check failed",
				zap.String("transaction_id", transactionID),
				zap.Int("http_status", statusErr.StatusCode))
			return s.errorResponse("Unable to retrieve transaction status", ErrCodeStatusCheckFailed)
		}
		s.logger.Error("status check error",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		return s.errorResponse("Error checking payment status", ErrCodeStatusCheckError)
	}

	return s.mapResponse(api, nil)
}

// RefundPayment refunds a transaction, fully when amount is nil, partially
// otherwise. Exposed for operator use; the kiosk flow never calls it.
func (s *PaymentService) RefundPayment(ctx context.Context, transactionID string, amount *decimal.Decimal) *models.PaymentResponse {
	refundAmount := "full"
	if amount != nil {
		refundAmount = amount.StringFixed(2)
	}
	s.logger.Info("processing refund",
		zap.String("transaction_id", transactionID),
		zap.String("amount", refundAmount))

	timer := prometheus.NewTimer(metrics.GatewayLatency.WithLabelValues("refund"))
	api, err := s.driver.Refund(ctx, transactionID, amount)
	timer.ObserveDuration()

	if err != nil {
		var statusErr *gateway.StatusError
		if errors.As(err, &statusErr) {
			s.logger.Error("refund failed",
				zap.String("transaction_id", transactionID),
				zap.Int("http_status", statusErr.StatusCode))
			return s.errorResponse("Refund processing failed", ErrCodeRefundFailed)
		}
		s.logger.Error("refund error",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		return s.errorResponse("Error processing refund", ErrCodeRefundError)
	}

	return s.mapResponse(api, nil)
}

func (s *PaymentService) classifyProcessError(err error, transactionID string) *models.PaymentResponse {
	var statusErr *gateway.StatusError
	switch {
	case errors.As(err, &statusErr):
		s.logger.Error("payment gateway error",
			zap.String("transaction_id", transactionID),
			zap.Int("http_status", statusErr.StatusCode))
		return s.errorResponse("Payment gateway error: "+statusErr.Reason, strconv.Itoa(statusErr.StatusCode))
	case isConnectionError(err):
		s.logger.Error("payment gateway unreachable",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		return s.errorResponse("Unable to connect to payment gateway", ErrCodeConnectionError)
	default:
		s.logger.Error("payment processing error",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		return s.errorResponse("An unexpected error occurred", ErrCodeProcessingError)
	}
}

// mapResponse converts the loosely-typed gateway reply into the strict
// internal response. req may be nil on status and refund calls.
func (s *PaymentService) mapResponse(api *gateway.APIResponse, req *models.PaymentRequest) *models.PaymentResponse {
	status := models.ParsePaymentStatus(api.Status)

	resp := &models.PaymentResponse{
		Success:           status == models.PaymentStatusApproved,
		Status:            status,
		TransactionID:     api.TransactionID,
		AuthorizationCode: api.AuthorizationCode,
		ReferenceNumber:   api.ReferenceNumber,
		Currency:          api.Currency,
		ErrorMessage:      api.ErrorMessage,
		ErrorCode:         api.ErrorCode,
		CardType:          api.CardType,
		CardLast4:         api.CardLast4,
		Timestamp:         time.Now().UTC(),
	}

	if resp.TransactionID == "" && req != nil {
		resp.TransactionID = req.TransactionID
	}

	if amt, err := decimal.NewFromString(api.Amount); err == nil && !amt.IsNegative() {
		resp.Amount = amt
	} else if req != nil {
		resp.Amount = req.Amount
	}

	if resp.Currency == "" {
		if req != nil && req.Currency != "" {
			resp.Currency = req.Currency
		} else {
			resp.Currency = s.defaultCurrency
		}
	}

	if !resp.Success && resp.ErrorCode == "" {
		resp.ErrorCode = strings.ToUpper(string(status))
	}

	return resp
}

func (s *PaymentService) errorResponse(message, code string) *models.PaymentResponse {
	return &models.PaymentResponse{
		Success:      false,
		Status:       models.PaymentStatusError,
		Currency:     s.defaultCurrency,
		ErrorMessage: message,
		ErrorCode:    code,
		Timestamp:    time.Now().UTC(),
	}
}

func (s *PaymentService) mode() string {
	if s.simulated {
		return "simulation"
	}
	return "live"
}

func isConnectionError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded)
}
