// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler turns the session's cart into an order.
type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	engine       *cart.Engine
	logger       *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(orchestrator *checkout.Orchestrator, engine *cart.Engine, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		engine:       engine,
		logger:       logger,
	}
}

// Checkout handles POST /api/checkout
// Each request is one single-use checkout attempt over the current cart.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sessionID, err := c.Cookie(sessionCookie)
	if err != nil || sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	userID := middleware.GetUserIDFromContext(c)
	crt := h.engine.Load(c.Request.Context(), sessionID)

	attempt := h.orchestrator.NewAttempt(crt, userID)
	result, err := attempt.Run(c.Request.Context(), sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *CheckoutHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, checkout.ErrEmptyCart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var createErr *checkout.OrderCreateError
	if errors.As(err, &createErr) {
		h.logger.WithError(err).Error("Checkout could not create the order")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Order could not be created, please try again",
			"retryable": true,
		})
		return
	}

	var partialErr *checkout.PartialOrderError
	if errors.As(err, &partialErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           "Order was recorded partially, support has been notified",
			"order_id":        partialErr.OrderID,
			"failed_products": partialErr.FailedProducts,
			"retryable":       false,
		})
		return
	}

	h.logger.WithError(err).Error("Checkout failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
}
