// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/pkg/rest"
)

// OrderHandler exposes order history, tracking and admin order
// management.
type OrderHandler struct {
	orders *order.Service
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{orders: svc}
}

// List returns the current identity's orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": rest.Detail(err, "Failed to load orders")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Get returns one order or an inline not-found state.
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": rest.Detail(err, "Failed to load order")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

// Tracking returns the public tracking view of an order.
func (h *OrderHandler) Tracking(c *gin.Context) {
	info, err := h.orders.Tracking(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": rest.Detail(err, "Failed to load tracking info")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracking": info})
}

// Stats returns the admin dashboard summary. Admin route.
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": rest.Detail(err, "Failed to load stats")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// ListAll returns all orders, optionally filtered by status. Admin route.
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context(), order.Status(c.Query("status")))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": rest.Detail(err, "Failed to load orders")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// UpdateStatus requests an order status transition. Admin route. The
// wire contract takes status and tracking details as query parameters.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	err := h.orders.UpdateStatus(
		c.Request.Context(),
		c.Param("id"),
		order.Status(status),
		c.Query("tracking_number"),
		c.Query("tracking_provider"),
	)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": rest.Detail(err, "Failed to update order")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated"})
}
