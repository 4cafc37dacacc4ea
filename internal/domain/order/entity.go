// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/checkout"
)

// Status enumerates order states. Transitions are owned by the backend;
// the client only reads them and, for admins, requests changes.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus enumerates payment states. The provider may report
// transient states beyond these; they pass through untyped.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

// Order is an immutable-once-placed purchase record. Line items are
// snapshots taken at order time, not live product references.
type Order struct {
	OrderID          string                   `json:"order_id"`
	UserID           string                   `json:"user_id"`
	Items            []cart.Item              `json:"items"`
	Subtotal         float64                  `json:"subtotal"`
	Shipping         float64                  `json:"shipping"`
	Total            float64                  `json:"total"`
	Status           Status                   `json:"status"`
	PaymentStatus    PaymentStatus            `json:"payment_status"`
	ShippingAddress  checkout.ShippingAddress `json:"shipping_address"`
	TrackingNumber   string                   `json:"tracking_number,omitempty"`
	TrackingProvider string                   `json:"tracking_provider,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
}

// TrackingInfo is the public tracking view of an order.
type TrackingInfo struct {
	OrderID          string `json:"order_id"`
	Status           Status `json:"status"`
	TrackingNumber   string `json:"tracking_number,omitempty"`
	TrackingProvider string `json:"tracking_provider,omitempty"`
	TrackingURL      string `json:"tracking_url,omitempty"`
}

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	TotalOrders     int     `json:"total_orders"`
	PendingOrders   int     `json:"pending_orders"`
	ConfirmedOrders int     `json:"confirmed_orders"`
	ShippedOrders   int     `json:"shipped_orders"`
	DeliveredOrders int     `json:"delivered_orders"`
	TotalProducts   int     `json:"total_products"`
	TotalUsers      int     `json:"total_users"`
	TotalRevenue    float64 `json:"total_revenue"`
}
