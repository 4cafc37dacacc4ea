// internal/domain/cart/store.go
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/pkg/rest"
)

// Store holds the per-identity cache of Cart and Wishlist. Every
// mutation writes through to the backend and then refetches the
// authoritative state; nothing is updated optimistically.
type Store struct {
	api    *rest.Client
	bridge *session.Bridge
	logger *logrus.Logger

	mu            sync.Mutex
	cart          Cart
	wishlist      Wishlist
	wishlistCount int

	// Refetch generations. A refetch result is discarded when a newer
	// refetch of the same resource started after it, so two rapid
	// mutations cannot leave the older response on display.
	cartGen     uint64
	wishlistGen uint64
	countGen    uint64

	unsubscribe func()
}

// NewStore creates the store and binds it to identity transitions:
// identity gone resets both collections synchronously, identity arrived
// refetches them.
func NewStore(api *rest.Client, bridge *session.Bridge, logger *logrus.Logger) *Store {
	s := &Store{
		api:      api,
		bridge:   bridge,
		logger:   logger,
		cart:     EmptyCart(),
		wishlist: EmptyWishlist(),
	}

	s.unsubscribe = bridge.OnChange(func(ident *session.Identity) {
		if ident == nil {
			s.reset()
			return
		}
		ctx := context.Background()
		s.FetchCart(ctx)
		s.FetchWishlist(ctx)
		s.FetchWishlistCount(ctx)
	})

	return s
}

// Close unsubscribes the store from identity transitions.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// reset restores the empty shapes. Runs synchronously with the identity
// transition so a signed-out view can never show the previous user's
// cart. Bumping the generations invalidates any in-flight refetch.
func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = EmptyCart()
	s.wishlist = EmptyWishlist()
	s.wishlistCount = 0
	s.cartGen++
	s.wishlistGen++
	s.countGen++
}

// Cart returns a snapshot of the cached cart.
func (s *Store) Cart() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.cart
	snapshot.Items = append([]Item(nil), s.cart.Items...)
	return snapshot
}

// Wishlist returns a snapshot of the cached wishlist.
func (s *Store) Wishlist() Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.wishlist
	snapshot.Items = append([]WishlistItem(nil), s.wishlist.Items...)
	return snapshot
}

// CartCount is the sum of quantities, recomputed on every call.
func (s *Store) CartCount() int {
	return s.Cart().Count()
}

// WishlistCount returns the backend-reported wishlist size.
func (s *Store) WishlistCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlistCount
}

// FetchCart refetches the cart. Background semantics: 401 resets the
// cart, any other failure leaves the prior state untouched and is only
// logged.
func (s *Store) FetchCart(ctx context.Context) {
	if s.bridge.CurrentIdentity() == nil {
		s.mu.Lock()
		s.cart = EmptyCart()
		s.cartGen++
		s.mu.Unlock()
		return
	}

	headers := s.bridge.AuthHeaders(ctx)
	if len(headers) == 0 {
		s.logger.Warn("no auth header, skipping cart fetch")
		return
	}

	s.mu.Lock()
	s.cartGen++
	gen := s.cartGen
	s.mu.Unlock()

	var fetched Cart
	err := s.api.Get(ctx, "/cart", headers, &fetched)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.cartGen {
		// A newer refetch superseded this one.
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("fetch cart failed")
		if rest.IsUnauthorized(err) {
			s.cart = EmptyCart()
		}
		return
	}
	if fetched.Items == nil {
		fetched.Items = []Item{}
	}
	s.cart = fetched
}

// FetchWishlist refetches the wishlist with the same background
// semantics as FetchCart.
func (s *Store) FetchWishlist(ctx context.Context) {
	if s.bridge.CurrentIdentity() == nil {
		s.mu.Lock()
		s.wishlist = EmptyWishlist()
		s.wishlistGen++
		s.mu.Unlock()
		return
	}

	headers := s.bridge.AuthHeaders(ctx)
	if len(headers) == 0 {
		s.logger.Warn("no auth header, skipping wishlist fetch")
		return
	}

	s.mu.Lock()
	s.wishlistGen++
	gen := s.wishlistGen
	s.mu.Unlock()

	var fetched Wishlist
	err := s.api.Get(ctx, "/wishlist", headers, &fetched)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.wishlistGen {
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("fetch wishlist failed")
		if rest.IsUnauthorized(err) {
			s.wishlist = EmptyWishlist()
		}
		return
	}
	if fetched.Items == nil {
		fetched.Items = []WishlistItem{}
	}
	s.wishlist = fetched
}

// FetchWishlistCount refetches the wishlist count.
func (s *Store) FetchWishlistCount(ctx context.Context) {
	if s.bridge.CurrentIdentity() == nil {
		s.mu.Lock()
		s.wishlistCount = 0
		s.countGen++
		s.mu.Unlock()
		return
	}

	headers := s.bridge.AuthHeaders(ctx)
	if len(headers) == 0 {
		return
	}

	s.mu.Lock()
	s.countGen++
	gen := s.countGen
	s.mu.Unlock()

	var fetched struct {
		Count int `json:"count"`
	}
	err := s.api.Get(ctx, "/wishlist/count", headers, &fetched)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.countGen {
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("wishlist count failed")
		return
	}
	s.wishlistCount = fetched.Count
}

// AddToCart writes the addition through and refetches the cart. The
// boolean tells the caller whether to reset quantity selectors.
func (s *Store) AddToCart(ctx context.Context, productID string, quantity int) (bool, Notice) {
	if s.bridge.CurrentIdentity() == nil {
		return false, errorNotice("Please sign in first")
	}
	if quantity < 1 {
		quantity = 1
	}

	headers := s.bridge.AuthHeaders(ctx)
	if len(headers) == 0 {
		return false, errorNotice("Authentication required")
	}

	body := map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	}
	if err := s.api.Post(ctx, "/cart/add", headers, body, nil); err != nil {
		s.logger.WithError(err).Error("add to cart failed")
		return false, errorNotice(rest.Detail(err, "Failed to add to cart"))
	}

	s.FetchCart(ctx)
	return true, successNotice("Added to cart")
}

// UpdateQuantity writes a new quantity through (0 removes the line item)
// and refetches the cart regardless of outcome.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) Notice {
	headers := s.bridge.AuthHeaders(ctx)

	body := map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	}
	err := s.api.Put(ctx, "/cart/update", headers, body, nil)
	s.FetchCart(ctx)
	if err != nil {
		s.logger.WithError(err).Error("update quantity failed")
		return errorNotice("Failed to update cart")
	}
	return successNotice("Cart updated")
}

// MoveToWishlist moves a cart line to the wishlist. The move is atomic
// on the backend, so both collections and the count are refetched.
func (s *Store) MoveToWishlist(ctx context.Context, productID string) Notice {
	headers := s.bridge.AuthHeaders(ctx)

	err := s.api.Post(ctx, fmt.Sprintf("/cart/%s/move-to-wishlist", productID), headers, struct{}{}, nil)
	s.FetchCart(ctx)
	s.FetchWishlist(ctx)
	s.FetchWishlistCount(ctx)
	if err != nil {
		s.logger.WithError(err).Error("move to wishlist failed")
		return errorNotice("Failed to move to wishlist")
	}
	return successNotice("Moved to wishlist")
}

// MoveToCart moves a wishlist entry into the cart.
func (s *Store) MoveToCart(ctx context.Context, productID string) Notice {
	headers := s.bridge.AuthHeaders(ctx)

	err := s.api.Post(ctx, fmt.Sprintf("/wishlist/%s/move-to-cart", productID), headers, struct{}{}, nil)
	s.FetchCart(ctx)
	s.FetchWishlist(ctx)
	s.FetchWishlistCount(ctx)
	if err != nil {
		s.logger.WithError(err).Error("move to cart failed")
		return errorNotice("Failed to move to cart")
	}
	return successNotice("Moved to cart")
}

// AddToWishlist writes the addition through. The backend reports a
// duplicate as a success with a distinguishing message, which maps to an
// informational notice rather than an error.
func (s *Store) AddToWishlist(ctx context.Context, productID string) (bool, Notice) {
	if s.bridge.CurrentIdentity() == nil {
		return false, errorNotice("Please sign in first")
	}

	headers := s.bridge.AuthHeaders(ctx)
	if len(headers) == 0 {
		return false, errorNotice("Authentication required")
	}

	var resp struct {
		Message string `json:"message"`
	}
	body := map[string]string{"product_id": productID}
	if err := s.api.Post(ctx, "/wishlist/add", headers, body, &resp); err != nil {
		s.logger.WithError(err).Error("add to wishlist failed")
		return false, errorNotice(rest.Detail(err, "Failed to add to wishlist"))
	}

	s.FetchWishlist(ctx)
	s.FetchWishlistCount(ctx)

	if resp.Message == "Already in wishlist" {
		return true, infoNotice("Already in wishlist")
	}
	return true, successNotice("Added to wishlist")
}

// RemoveFromWishlist deletes a wishlist entry and refetches.
func (s *Store) RemoveFromWishlist(ctx context.Context, productID string) Notice {
	headers := s.bridge.AuthHeaders(ctx)

	err := s.api.Delete(ctx, "/wishlist/"+productID, headers, nil)
	s.FetchWishlist(ctx)
	s.FetchWishlistCount(ctx)
	if err != nil {
		s.logger.WithError(err).Error("remove from wishlist failed")
		return errorNotice("Failed to remove from wishlist")
	}
	return successNotice("Removed from wishlist")
}

// InWishlist asks the backend whether a product is saved.
func (s *Store) InWishlist(ctx context.Context, productID string) bool {
	headers := s.bridge.AuthHeaders(ctx)
	if len(headers) == 0 {
		return false
	}

	var resp struct {
		InWishlist bool `json:"in_wishlist"`
	}
	if err := s.api.Get(ctx, "/wishlist/check/"+productID, headers, &resp); err != nil {
		s.logger.WithError(err).Error("wishlist check failed")
		return false
	}
	return resp.InWishlist
}

// ClearCart empties the cart on the backend and refetches.
func (s *Store) ClearCart(ctx context.Context) Notice {
	headers := s.bridge.AuthHeaders(ctx)

	err := s.api.Delete(ctx, "/cart/clear", headers, nil)
	s.FetchCart(ctx)
	if err != nil {
		s.logger.WithError(err).Error("clear cart failed")
		return errorNotice("Failed to clear cart")
	}
	return successNotice("Cart cleared")
}
