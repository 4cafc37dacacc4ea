// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/pkg/rest"
)

// ErrNotFound is returned for a missing order or tracking record.
var ErrNotFound = errors.New("order not found")

// Service reads order history and tracking, and exposes the admin
// order-management calls.
type Service struct {
	api    *rest.Client
	bridge *session.Bridge
	logger *logrus.Logger
}

// NewService creates an order service.
func NewService(api *rest.Client, bridge *session.Bridge, logger *logrus.Logger) *Service {
	return &Service{api: api, bridge: bridge, logger: logger}
}

// List fetches the current identity's orders.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	headers := s.bridge.AuthHeaders(ctx)

	var orders []Order
	if err := s.api.Get(ctx, "/orders", headers, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Get fetches one of the current identity's orders.
func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	headers := s.bridge.AuthHeaders(ctx)

	var order Order
	if err := s.api.Get(ctx, "/orders/"+orderID, headers, &order); err != nil {
		if rest.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Tracking fetches the public tracking view of an order.
func (s *Service) Tracking(ctx context.Context, orderID string) (*TrackingInfo, error) {
	var info TrackingInfo
	if err := s.api.Get(ctx, "/tracking/"+orderID, nil, &info); err != nil {
		if rest.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &info, nil
}

// Stats fetches the admin dashboard summary. Admin only.
func (s *Service) Stats(ctx context.Context) (*AdminStats, error) {
	headers := s.bridge.AuthHeaders(ctx)

	var stats AdminStats
	if err := s.api.Get(ctx, "/admin/stats", headers, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListAll fetches all orders, optionally filtered by status. Admin only.
func (s *Service) ListAll(ctx context.Context, status Status) ([]Order, error) {
	headers := s.bridge.AuthHeaders(ctx)

	path := "/admin/orders"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}

	var orders []Order
	if err := s.api.Get(ctx, path, headers, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus requests an order status transition, optionally attaching
// tracking details. The wire contract takes these as query parameters.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status Status, trackingNumber, trackingProvider string) error {
	headers := s.bridge.AuthHeaders(ctx)

	q := url.Values{}
	q.Set("status", string(status))
	if trackingNumber != "" {
		q.Set("tracking_number", trackingNumber)
	}
	if trackingProvider != "" {
		q.Set("tracking_provider", trackingProvider)
	}

	path := "/admin/orders/" + orderID + "?" + q.Encode()
	if err := s.api.Put(ctx, path, headers, nil, nil); err != nil {
		s.logger.WithError(err).Error("order status update failed")
		if rest.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
