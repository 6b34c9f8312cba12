package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourorg/checkout-kiosk/internal/metrics"
	"github.com/yourorg/checkout-kiosk/internal/models"
)

// Sentinel errors the handlers translate into HTTP statuses.
var (
	ErrInvalidCard      = errors.New("card number is required")
	ErrCustomerNotFound = errors.New("no customer found for card")
	ErrEmptyCart        = errors.New("no pending bill for customer")
	ErrCartExpired      = errors.New("cart not found or expired")
)

// cartTTL bounds how long a loaded cart stays payable before the customer
// has to rescan their card.
const cartTTL = 15 * time.Minute

// CustomerLookup resolves a scanned card to a customer key.
type CustomerLookup interface {
	GetCustomerKeyByCardNo(ctx context.Context, cardNo string) (*int, error)
}

// BillSource retrieves a customer's pending bill lines.
type BillSource interface {
	GetBillLinesByCustomerKey(ctx context.Context, customerKey int) ([]models.BillLine, error)
}

// PaymentProcessor is the slice of PaymentService the checkout flow needs.
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, req *models.PaymentRequest) *models.PaymentResponse
}

// CartCache stores loaded carts between the cart and payment steps.
type CartCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CheckoutService drives the kiosk flow: card scan to cart, cart to payment.
type CheckoutService struct {
	customers CustomerLookup
	bills     BillSource
	payments  PaymentProcessor
	cache     CartCache
	logger    *zap.Logger
	currency  string
}

func NewCheckoutService(
	customers CustomerLookup,
	bills BillSource,
	payments PaymentProcessor,
	cache CartCache,
	logger *zap.Logger,
	currency string,
) *CheckoutService {
	return &CheckoutService{
		customers: customers,
		bills:     bills,
		payments:  payments,
		cache:     cache,
		logger:    logger,
		currency:  currency,
	}
}

// LoadCart resolves the scanned card to a customer, retrieves their pending
// bill, computes totals and caches the cart for the payment step.
func (s *CheckoutService) LoadCart(ctx context.Context, cardNo string) (*models.Cart, error) {
	cardNo = strings.TrimSpace(cardNo)
	if cardNo == "" {
		return nil, ErrInvalidCard
	}

	s.logger.Info("loading cart", zap.String("card_no", cardNo))

	customerKey, err := s.customers.GetCustomerKeyByCardNo(ctx, cardNo)
	if err != nil {
		metrics.CartLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	if customerKey == nil {
		s.logger.Warn("no customer for card", zap.String("card_no", cardNo))
		metrics.CartLoadsTotal.WithLabelValues("no_customer").Inc()
		return nil, ErrCustomerNotFound
	}

	lines, err := s.bills.GetBillLinesByCustomerKey(ctx, *customerKey)
	if err != nil {
		metrics.CartLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to retrieve bill: %w", err)
	}
	if len(lines) == 0 {
		s.logger.Info("no pending bill", zap.Int("customer_key", *customerKey))
		metrics.CartLoadsTotal.WithLabelValues("empty").Inc()
		return nil, ErrEmptyCart
	}

	cart := models.NewCart(uuid.New().String(), *customerKey, lines)

	data, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.cache.Set(ctx, cartKey(cart.ID), data, cartTTL); err != nil {
		metrics.CartLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to cache cart: %w", err)
	}

	s.logger.Info("cart loaded",
		zap.String("cart_id", cart.ID),
		zap.Int("customer_key", *customerKey),
		zap.Int("item_count", cart.ItemCount()),
		zap.String("total", cart.Total.String()))
	metrics.CartLoadsTotal.WithLabelValues("loaded").Inc()

	return cart, nil
}

// GetCart fetches a previously loaded cart from the cache.
func (s *CheckoutService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	data, err := s.cache.Get(ctx, cartKey(cartID))
	if err != nil {
		return nil, ErrCartExpired
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cached cart: %w", err)
	}

	return &cart, nil
}

// Pay builds a payment request from the cached cart's total and submits it.
// The cart is dropped once the payment is approved; on failure it stays
// payable so the customer can retry.
func (s *CheckoutService) Pay(ctx context.Context, cartID string) (*models.PaymentResponse, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	transactionID := newTransactionID()
	s.logger.Info("initiating payment",
		zap.String("transaction_id", transactionID),
		zap.String("cart_id", cartID),
		zap.String("amount", cart.Total.String()),
		zap.Int("customer_key", cart.CustomerKey))

	req := models.NewPaymentRequest(transactionID, cart.Total, s.currency)
	req.Description = fmt.Sprintf("Self Checkout Purchase - %d items", cart.ItemCount())
	customerKey := cart.CustomerKey
	req.CustomerID = &customerKey

	resp := s.payments.ProcessPayment(ctx, req)

	if resp.Success {
		if err := s.cache.Delete(ctx, cartKey(cartID)); err != nil {
			s.logger.Warn("failed to drop paid cart", zap.String("cart_id", cartID), zap.Error(err))
		}
	}

	return resp, nil
}

// newTransactionID builds ids like TXN-20260901120000-1A2B3C4D, unique per
// checkout attempt.
func newTransactionID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TXN-%s-%s", time.Now().UTC().Format("20060102150405"), suffix)
}

func cartKey(cartID string) string {
	return "cart:" + cartID
}
