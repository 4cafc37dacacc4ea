// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/pkg/rest"
)

// CheckoutHandler exposes the checkout handoff over the app shell.
type CheckoutHandler struct {
	service *checkout.Service
	logger  *logrus.Logger
}

// NewCheckoutHandler creates a checkout handler.
func NewCheckoutHandler(service *checkout.Service, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, logger: logger}
}

type checkoutRequest struct {
	ShippingAddress checkout.ShippingAddress `json:"shipping_address"`
}

// Submit creates the order and payment session, then hands the browser
// off to the payment provider. On failure the caller stays on the
// checkout view with the backend's message.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentURL, err := h.service.Initiate(c.Request.Context(), req.ShippingAddress, requestOrigin(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": rest.Detail(err, "Failed to process checkout"),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, paymentURL)
}

// OrderSuccess handles the return from the payment provider. Without a
// session_id it goes straight home; otherwise it polls the status
// endpoint once per page load until a terminal state.
func (h *CheckoutHandler) OrderSuccess(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	confirmation := h.service.NewConfirmation(sessionID)
	status := confirmation.Run(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"status":     status,
	})
}
