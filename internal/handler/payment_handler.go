package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yourorg/checkout-kiosk/internal/service"
)

type PaymentHandler struct {
	checkout *service.CheckoutService
	payments *service.PaymentService
	logger   *zap.Logger
}

func NewPaymentHandler(checkout *service.CheckoutService, payments *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		checkout: checkout,
		payments: payments,
		logger:   logger,
	}
}

type createPaymentRequest struct {
	CartID string `json:"cart_id" binding:"required"`
}

// CreatePayment handles POST /api/v1/payments. The payment outcome is always
// a well-formed response body; a declined payment answers 402 so the kiosk
// front-end can branch to the retry screen.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.checkout.Pay(c.Request.Context(), req.CartID)
	if err != nil {
		if errors.Is(err, service.ErrCartExpired) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found or expired"})
			return
		}
		h.logger.Error("failed to process payment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payment"})
		return
	}

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusPaymentRequired
	}
	c.JSON(status, gin.H{"payment": resp})
}

// CheckStatus handles GET /api/v1/payments/:id/status
func (h *PaymentHandler) CheckStatus(c *gin.Context) {
	resp := h.payments.CheckStatus(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"payment": resp})
}

type refundRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// RefundPayment handles POST /api/v1/payments/:id/refund. An omitted amount
// refunds the full transaction.
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	var req refundRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refund amount must be positive"})
		return
	}

	resp := h.payments.RefundPayment(c.Request.Context(), c.Param("id"), req.Amount)

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"payment": resp})
}
