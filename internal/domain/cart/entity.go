// internal/domain/cart/entity.go
package cart

// Item is a cart line item. Quantity is always >= 1 in backend
// responses; quantity 0 in an update request is the removal convention.
type Item struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Cart is the shopping cart for the current identity. Subtotal, shipping
// and total are computed by the backend; the client never derives them.
type Cart struct {
	Items    []Item  `json:"items"`
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// EmptyCart is the reset shape used whenever the identity goes away.
func EmptyCart() Cart {
	return Cart{Items: []Item{}}
}

// Count sums quantities across all line items. Always recomputed from
// the snapshot, never cached, so it cannot drift.
func (c Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// WishlistItem is a saved product with its current stock.
type WishlistItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Stock     int     `json:"stock"`
	AddedAt   string  `json:"added_at,omitempty"`
}

// Wishlist is the saved-products set for the current identity.
type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

// EmptyWishlist is the reset shape used whenever the identity goes away.
func EmptyWishlist() Wishlist {
	return Wishlist{Items: []WishlistItem{}}
}

// NoticeLevel classifies a user-facing notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeError   NoticeLevel = "error"
)

// Notice is the outcome of a user-triggered mutation, destined for a
// transient notification. Background refetches never produce notices.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func successNotice(msg string) Notice { return Notice{Level: NoticeSuccess, Message: msg} }
func infoNotice(msg string) Notice    { return Notice{Level: NoticeInfo, Message: msg} }
func errorNotice(msg string) Notice   { return Notice{Level: NoticeError, Message: msg} }
