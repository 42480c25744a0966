// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// ProductHandler serves the public product and category catalog.
type ProductHandler struct {
	catalog *catalog.Service
	logger  *logrus.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalogService *catalog.Service, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalogService,
		logger:  logger,
	}
}

// ListProducts handles GET /api/products
// Supports ?category=<slug> and ?search=<text> filters.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	categorySlug := c.Query("category")
	search := c.Query("search")

	products, err := h.catalog.ListProducts(c.Request.Context(), categorySlug, search)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Product listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct handles GET /api/products/:idOrSlug
// Numeric values look up by ID, anything else by slug.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	key := c.Param("idOrSlug")

	var p *catalog.Product
	var err error
	if id, convErr := strconv.ParseUint(key, 10, 32); convErr == nil {
		p, err = h.catalog.GetProduct(c.Request.Context(), uint(id))
	} else {
		p, err = h.catalog.GetProductBySlug(c.Request.Context(), key)
	}
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Product load failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// ListCategories handles GET /api/categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Category listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetCategory handles GET /api/categories/:slug
func (h *ProductHandler) GetCategory(c *gin.Context) {
	slug := c.Param("slug")

	cat, err := h.catalog.GetCategoryBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Category load failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load category"})
		return
	}

	c.JSON(http.StatusOK, cat)
}
