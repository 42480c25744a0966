// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// sessionCookie identifies a shopper's cart session. Guests get one on first
// cart touch; it rides along for logged-in users as well.
const sessionCookie = "cart_session"

// CartHandler serves the session cart endpoints.
type CartHandler struct {
	engine  *cart.Engine
	catalog *catalog.Service
	config  *config.Config
	logger  *logrus.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(engine *cart.Engine, catalogService *catalog.Service, cfg *config.Config, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		engine:  engine,
		catalog: catalogService,
		config:  cfg,
		logger:  logger,
	}
}

// AddItemRequest carries an add-to-cart mutation.
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateQuantityRequest carries a quantity replacement for one line item.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the wire view of a cart. Totals are rounded to cents for
// display; the stored cart keeps full precision.
type CartResponse struct {
	Items     []cart.LineItem `json:"items"`
	Subtotal  float64         `json:"subtotal"`
	Tax       float64         `json:"tax"`
	Shipping  float64         `json:"shipping"`
	Total     float64         `json:"total"`
	ItemCount int             `json:"item_count"`
}

func newCartResponse(c *cart.Cart) CartResponse {
	return CartResponse{
		Items:     c.Items,
		Subtotal:  cart.Round2(c.Subtotal),
		Tax:       cart.Round2(c.Tax),
		Shipping:  cart.Round2(c.Shipping),
		Total:     cart.Round2(c.Total),
		ItemCount: c.ItemCount(),
	}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := h.sessionID(c)
	crt := h.engine.Load(c.Request.Context(), sessionID)
	c.JSON(http.StatusOK, newCartResponse(crt))
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Product lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}

	sessionID := h.sessionID(c)
	crt := h.engine.Load(c.Request.Context(), sessionID)
	h.engine.AddItem(c.Request.Context(), sessionID, crt, p.Snapshot(), req.Quantity)

	c.JSON(http.StatusOK, newCartResponse(crt))
}

// UpdateItem handles PUT /api/cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, err := parseProductID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := h.sessionID(c)
	crt := h.engine.Load(c.Request.Context(), sessionID)
	h.engine.UpdateQuantity(c.Request.Context(), sessionID, crt, productID, req.Quantity)

	c.JSON(http.StatusOK, newCartResponse(crt))
}

// RemoveItem handles DELETE /api/cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := parseProductID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	sessionID := h.sessionID(c)
	crt := h.engine.Load(c.Request.Context(), sessionID)
	h.engine.RemoveItem(c.Request.Context(), sessionID, crt, productID)

	c.JSON(http.StatusOK, newCartResponse(crt))
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := h.sessionID(c)
	crt := h.engine.Load(c.Request.Context(), sessionID)
	h.engine.Clear(c.Request.Context(), sessionID, crt)

	c.JSON(http.StatusOK, newCartResponse(crt))
}

// GetCount handles GET /api/cart/count
func (h *CartHandler) GetCount(c *gin.Context) {
	sessionID := h.sessionID(c)
	crt := h.engine.Load(c.Request.Context(), sessionID)

	c.JSON(http.StatusOK, gin.H{"count": crt.ItemCount()})
}

// sessionID returns the request's cart session ID, minting a new cookie when
// none is present.
func (h *CartHandler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}

	id := uuid.New().String()
	maxAge := int(h.config.Store.CartSessionTTL.Seconds())
	c.SetCookie(sessionCookie, id, maxAge, "/", "", h.config.IsProduction(), true)
	return id
}

func parseProductID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
