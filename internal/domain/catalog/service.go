// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/pkg/rest"
)

// ErrNotFound is returned for a missing product, mapped to an inline
// not-found view rather than a notice.
var ErrNotFound = errors.New("product not found")

// Service reads the product catalog and, for admins, manages it.
type Service struct {
	api    *rest.Client
	bridge *session.Bridge
	logger *logrus.Logger
}

// NewService creates a catalog service.
func NewService(api *rest.Client, bridge *session.Bridge, logger *logrus.Logger) *Service {
	return &Service{api: api, bridge: bridge, logger: logger}
}

// List fetches products, optionally filtered. Public endpoint.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Product, error) {
	q := url.Values{}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Featured {
		q.Set("featured", "true")
	}

	path := "/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var products []Product
	if err := s.api.Get(ctx, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get fetches one product.
func (s *Service) Get(ctx context.Context, productID string) (*Product, error) {
	var product Product
	if err := s.api.Get(ctx, "/products/"+productID, nil, &product); err != nil {
		if rest.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Categories fetches the category list. Public endpoint.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.api.Get(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Create adds a product. Admin only; the backend enforces the role.
func (s *Service) Create(ctx context.Context, req ProductCreate) (*Product, error) {
	headers := s.bridge.AuthHeaders(ctx)

	var product Product
	if err := s.api.Post(ctx, "/products", headers, req, &product); err != nil {
		s.logger.WithError(err).Error("product creation failed")
		return nil, err
	}
	return &product, nil
}

// Update partially updates a product. Admin only.
func (s *Service) Update(ctx context.Context, productID string, req ProductUpdate) (*Product, error) {
	headers := s.bridge.AuthHeaders(ctx)

	var product Product
	if err := s.api.Put(ctx, "/products/"+productID, headers, req, &product); err != nil {
		s.logger.WithError(err).Error("product update failed")
		if rest.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Delete removes a product. Admin only.
func (s *Service) Delete(ctx context.Context, productID string) error {
	headers := s.bridge.AuthHeaders(ctx)

	if err := s.api.Delete(ctx, "/products/"+productID, headers, nil); err != nil {
		s.logger.WithError(err).Error("product deletion failed")
		if rest.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
