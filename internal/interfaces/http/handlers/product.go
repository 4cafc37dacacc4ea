// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/pkg/rest"
)

// ProductHandler exposes catalog reads and admin catalog management.
type ProductHandler struct {
	catalog *catalog.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(svc *catalog.Service) *ProductHandler {
	return &ProductHandler{catalog: svc}
}

// List returns products, optionally filtered by category, search term or
// the featured flag.
func (h *ProductHandler) List(c *gin.Context) {
	opts := catalog.ListOptions{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Featured: c.Query("featured") == "true",
	}

	products, err := h.catalog.List(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": rest.Detail(err, "Failed to load products")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Get returns one product or an inline not-found state.
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": rest.Detail(err, "Failed to load product")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Categories returns the category list.
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": rest.Detail(err, "Failed to load categories")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Create adds a product. Admin route.
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalog.ProductCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": rest.Detail(err, "Failed to create product")})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// Update partially updates a product. Admin route.
func (h *ProductHandler) Update(c *gin.Context) {
	var req catalog.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.catalog.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": rest.Detail(err, "Failed to update product")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Delete removes a product. Admin route.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": rest.Detail(err, "Failed to delete product")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
