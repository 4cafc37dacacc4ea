// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/domain/cart"
)

// CartHandler exposes the cart/wishlist store over the app shell.
type CartHandler struct {
	store *cart.Store
}

// NewCartHandler creates a cart handler.
func NewCartHandler(store *cart.Store) *CartHandler {
	return &CartHandler{store: store}
}

// GetCart refetches and returns the cart snapshot with the derived count.
func (h *CartHandler) GetCart(c *gin.Context) {
	h.store.FetchCart(c.Request.Context())
	snapshot := h.store.Cart()
	c.JSON(http.StatusOK, gin.H{
		"cart":       snapshot,
		"cart_count": snapshot.Count(),
	})
}

type cartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddToCart adds a product to the cart.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ok, notice := h.store.AddToCart(c.Request.Context(), req.ProductID, req.Quantity)
	status := http.StatusOK
	if !ok {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{
		"ok":         ok,
		"notice":     notice,
		"cart":       h.store.Cart(),
		"cart_count": h.store.CartCount(),
	})
}

// UpdateQuantity changes a line item's quantity; 0 removes it.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notice := h.store.UpdateQuantity(c.Request.Context(), req.ProductID, req.Quantity)
	c.JSON(http.StatusOK, gin.H{
		"notice":     notice,
		"cart":       h.store.Cart(),
		"cart_count": h.store.CartCount(),
	})
}

// MoveToWishlist moves a cart line item to the wishlist.
func (h *CartHandler) MoveToWishlist(c *gin.Context) {
	notice := h.store.MoveToWishlist(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"notice":         notice,
		"cart":           h.store.Cart(),
		"wishlist":       h.store.Wishlist(),
		"wishlist_count": h.store.WishlistCount(),
	})
}

// ClearCart empties the cart.
func (h *CartHandler) ClearCart(c *gin.Context) {
	notice := h.store.ClearCart(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"notice": notice,
		"cart":   h.store.Cart(),
	})
}

// GetWishlist refetches and returns the wishlist snapshot.
func (h *CartHandler) GetWishlist(c *gin.Context) {
	ctx := c.Request.Context()
	h.store.FetchWishlist(ctx)
	h.store.FetchWishlistCount(ctx)
	c.JSON(http.StatusOK, gin.H{
		"wishlist":       h.store.Wishlist(),
		"wishlist_count": h.store.WishlistCount(),
	})
}

type wishlistItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// AddToWishlist saves a product. A duplicate is an informational
// outcome, not an error.
func (h *CartHandler) AddToWishlist(c *gin.Context) {
	var req wishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, notice := h.store.AddToWishlist(c.Request.Context(), req.ProductID)
	status := http.StatusOK
	if !ok {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{
		"ok":             ok,
		"notice":         notice,
		"wishlist":       h.store.Wishlist(),
		"wishlist_count": h.store.WishlistCount(),
	})
}

// RemoveFromWishlist deletes a wishlist entry.
func (h *CartHandler) RemoveFromWishlist(c *gin.Context) {
	notice := h.store.RemoveFromWishlist(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"notice":         notice,
		"wishlist":       h.store.Wishlist(),
		"wishlist_count": h.store.WishlistCount(),
	})
}

// MoveToCart moves a wishlist entry into the cart.
func (h *CartHandler) MoveToCart(c *gin.Context) {
	notice := h.store.MoveToCart(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"notice":         notice,
		"cart":           h.store.Cart(),
		"wishlist":       h.store.Wishlist(),
		"wishlist_count": h.store.WishlistCount(),
	})
}

// WishlistCount returns the cached wishlist count after a refetch.
func (h *CartHandler) WishlistCount(c *gin.Context) {
	h.store.FetchWishlistCount(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"count": h.store.WishlistCount()})
}

// CheckWishlist reports whether a product is saved.
func (h *CartHandler) CheckWishlist(c *gin.Context) {
	inWishlist := h.store.InWishlist(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"in_wishlist": inWishlist})
}
