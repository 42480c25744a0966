// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/receipt"
)

// OrderHandler serves the order persistence endpoints.
type OrderHandler struct {
	orders   *order.Service
	catalog  *catalog.Service
	receipts *receipt.Service
	logger   *logrus.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders *order.Service, catalogService *catalog.Service, receipts *receipt.Service, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		catalog:  catalogService,
		receipts: receipts,
		logger:   logger,
	}
}

// UpdateStatusRequest carries an order status transition.
type UpdateStatusRequest struct {
	Status order.Status `json:"status" binding:"required"`
}

// CreateOrder handles POST /api/orders
// Totals are recorded exactly as submitted; the server does not recompute
// them from the catalog.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input order.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The authenticated user, when present, owns the order regardless of the
	// body's user_id.
	if userID := middleware.GetUserIDFromContext(c); userID != nil {
		input.UserID = userID
	}

	o, err := h.orders.CreateOrder(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, order.ErrInvalidStatus) || errors.Is(err, order.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Order creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, o)
}

// AddItem handles POST /api/orders/:orderId/items
func (h *OrderHandler) AddItem(c *gin.Context) {
	orderID, err := parseIDParam(c, "orderId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input order.CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.orders.AddItem(c.Request.Context(), orderID, input)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) || errors.Is(err, order.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Order item creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add order item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetOrder handles GET /api/orders/:orderId
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, o)
}

// GetUserOrders handles GET /api/users/:userId/orders
// A user may only list their own orders; admins may list anyone's.
func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	targetID, err := parseIDParam(c, "userId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	callerID := middleware.GetUserIDFromContext(c)
	if callerID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	if *callerID != targetID && !middleware.IsAdminFromContext(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot view another user's orders"})
		return
	}

	orders, err := h.orders.GetUserOrders(c.Request.Context(), targetID)
	if err != nil {
		h.logger.WithError(err).Error("Order listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateStatus handles PATCH /api/orders/:orderId/status (admin only,
// enforced by routing).
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := parseIDParam(c, "orderId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.orders.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, order.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.WithError(err).Error("Order status update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		}
		return
	}

	c.JSON(http.StatusOK, o)
}

// GetReceipt handles GET /api/orders/:orderId/receipt
// Streams the order receipt as a PDF attachment.
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	o, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}

	lines := make([]receipt.Line, 0, len(o.Items))
	for _, item := range o.Items {
		name := fmt.Sprintf("Product #%d", item.ProductID)
		if p, err := h.catalog.GetProduct(c.Request.Context(), item.ProductID); err == nil {
			name = p.Name
		}
		lines = append(lines, receipt.Line{
			Name:     name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Total:    item.Price * float64(item.Quantity),
		})
	}

	pdf, err := h.receipts.Generate(o, lines)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", o.ID).Error("Receipt generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate receipt"})
		return
	}

	filename := fmt.Sprintf("receipt-order-%d.pdf", o.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}

// loadOwnedOrder loads the :orderId order and enforces ownership: guests can
// read guest orders, users their own, admins anything. On failure it writes
// the error response and returns ok=false.
func (h *OrderHandler) loadOwnedOrder(c *gin.Context) (*order.Order, bool) {
	orderID, err := parseIDParam(c, "orderId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return nil, false
	}

	o, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return nil, false
		}
		h.logger.WithError(err).Error("Order load failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return nil, false
	}

	if o.UserID != nil {
		callerID := middleware.GetUserIDFromContext(c)
		owner := callerID != nil && *callerID == *o.UserID
		if !owner && !middleware.IsAdminFromContext(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot view another user's order"})
			return nil, false
		}
	}

	return o, true
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
