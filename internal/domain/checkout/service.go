// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/pkg/rest"
)

// Service converts a populated cart into a backend order plus an
// external payment session, and confirms payment completion afterwards.
type Service struct {
	api    *rest.Client
	bridge *session.Bridge
	carts  *cart.Store
	cfg    config.CheckoutConfig
	logger *logrus.Logger
}

// NewService creates a checkout service.
func NewService(api *rest.Client, bridge *session.Bridge, carts *cart.Store, cfg config.CheckoutConfig, logger *logrus.Logger) *Service {
	return &Service{
		api:    api,
		bridge: bridge,
		carts:  carts,
		cfg:    cfg,
		logger: logger,
	}
}

// Initiate creates the backend order, then the payment session, and
// returns the payment URL for a full browser navigation. origin is the
// application's own origin, used by the backend to build return URLs.
// On failure the caller stays on the checkout view; the error carries
// the backend's detail message.
func (s *Service) Initiate(ctx context.Context, addr ShippingAddress, origin string) (string, error) {
	if err := addr.Validate(); err != nil {
		return "", err
	}

	headers := s.bridge.AuthHeaders(ctx)

	var orderResp struct {
		OrderID string `json:"order_id"`
	}
	orderBody := map[string]interface{}{"shipping_address": addr}
	if err := s.api.Post(ctx, "/orders", headers, orderBody, &orderResp); err != nil {
		s.logger.WithError(err).Error("order creation failed")
		return "", err
	}

	var sessionResp struct {
		URL string `json:"url"`
	}
	sessionBody := map[string]interface{}{
		"order_id":   orderResp.OrderID,
		"origin_url": origin,
	}
	if err := s.api.Post(ctx, "/checkout/create-session", headers, sessionBody, &sessionResp); err != nil {
		s.logger.WithError(err).Error("payment session creation failed")
		return "", err
	}

	s.logger.WithField("order_id", orderResp.OrderID).Info("checkout initiated")
	return sessionResp.URL, nil
}

// Confirmation polls the payment status for one returned session. It is
// single-shot: Run executes the poll loop at most once, and later calls
// return the recorded result. This mirrors the page-load latch that
// keeps rendering re-entry from starting a second poll.
type Confirmation struct {
	svc       *Service
	sessionID string

	mu     sync.Mutex
	ran    bool
	status Status
}

// NewConfirmation prepares a confirmation for the payment session the
// browser returned with.
func (s *Service) NewConfirmation(sessionID string) *Confirmation {
	return &Confirmation{
		svc:       s,
		sessionID: sessionID,
		status:    StatusChecking,
	}
}

// Status returns the last observed status.
func (c *Confirmation) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Run polls the status endpoint until a terminal state. The first probe
// fires immediately, subsequent ones after the configured interval, up
// to the configured attempt limit. A second Run returns the stored
// status without polling again.
func (c *Confirmation) Run(ctx context.Context) Status {
	c.mu.Lock()
	if c.ran {
		status := c.status
		c.mu.Unlock()
		return status
	}
	c.ran = true
	c.mu.Unlock()

	status := c.svc.poll(ctx, c.sessionID)

	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
	return status
}

func (s *Service) poll(ctx context.Context, sessionID string) Status {
	interval := s.cfg.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	attempts := s.cfg.PollAttempts
	if attempts <= 0 {
		attempts = 5
	}

	log := s.logger.WithField("session_id", sessionID)

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				log.WithError(ctx.Err()).Error("payment status poll cancelled")
				return StatusError
			}
		}

		var resp struct {
			PaymentStatus string `json:"payment_status"`
			Status        string `json:"status"`
		}
		headers := s.bridge.AuthHeaders(ctx)
		if err := s.api.Get(ctx, "/checkout/status/"+sessionID, headers, &resp); err != nil {
			log.WithError(err).Error("payment status check failed")
			return StatusError
		}

		if resp.PaymentStatus == "paid" {
			// The backend clears the cart on paid orders.
			s.carts.FetchCart(ctx)
			log.Info("payment confirmed")
			return StatusSuccess
		}
		if resp.Status == "expired" {
			log.Warn("payment session expired")
			return StatusExpired
		}
	}

	log.Warn("payment confirmation timed out")
	return StatusTimeout
}
