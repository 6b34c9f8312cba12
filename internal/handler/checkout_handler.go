package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/checkout-kiosk/internal/service"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
	logger   *zap.Logger
}

func NewCheckoutHandler(checkout *service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

type loadCartRequest struct {
	CardNo string `json:"card_no" binding:"required"`
}

// LoadCart handles POST /api/v1/cart
func (h *CheckoutHandler) LoadCart(c *gin.Context) {
	var req loadCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.checkout.LoadCart(c.Request.Context(), req.CardNo)
	switch {
	case errors.Is(err, service.ErrInvalidCard):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card number"})
		return
	case errors.Is(err, service.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No customer found with this card. Please contact staff."})
		return
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusNotFound, gin.H{"error": "No items found in your cart. Please add items first."})
		return
	case err != nil:
		h.logger.Error("failed to load cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred loading your cart. Please try again or contact staff."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// GetCart handles GET /api/v1/cart/:id
func (h *CheckoutHandler) GetCart(c *gin.Context) {
	cart, err := h.checkout.GetCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCartExpired) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found or expired"})
			return
		}
		h.logger.Error("failed to get cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}
