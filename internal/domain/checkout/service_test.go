// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/identity"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/pkg/metrics"
	"github.com/your-org/storefront/internal/pkg/rest"
)

type fakeProvider struct{}

func (fakeProvider) Session(context.Context) (*identity.Session, error) {
	return &identity.Session{AccessToken: "test-token"}, nil
}

func (fakeProvider) SignUp(context.Context, string, string, string) (*identity.Session, error) {
	return nil, nil
}

func (fakeProvider) SignInWithPassword(context.Context, string, string) (*identity.Session, error) {
	return nil, nil
}

func (fakeProvider) OAuthURL(string, string) string { return "" }

func (fakeProvider) AdoptSession(context.Context, string) (*identity.Session, error) {
	return nil, nil
}

func (fakeProvider) SignOut(context.Context) error { return nil }

func (fakeProvider) SendPasswordReset(context.Context, string, string) error { return nil }

func (fakeProvider) UpdatePassword(context.Context, string) error { return nil }

func (fakeProvider) VerifyRecovery(context.Context, string) (*identity.Session, error) {
	return nil, nil
}

func (fakeProvider) OnAuthStateChange(func(identity.Event, *identity.Session)) func() {
	return func() {}
}

// paymentBackend scripts the order, payment-session and status endpoints.
type paymentBackend struct {
	mu          sync.Mutex
	statuses    []map[string]string // per status call; the last entry repeats
	statusCalls int
	cartFetches int
	orderDetail string // when set, POST /orders fails with this detail
	lastOrder   map[string]interface{}
	lastSession map[string]interface{}
}

func (b *paymentBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.URL.Path == "/auth/me":
		json.NewEncoder(w).Encode(map[string]string{"user_id": "user-1", "role": "customer"})

	case r.URL.Path == "/cart":
		b.cartFetches++
		json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})

	case r.URL.Path == "/orders" && r.Method == http.MethodPost:
		if b.orderDetail != "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": b.orderDetail})
			return
		}
		json.NewDecoder(r.Body).Decode(&b.lastOrder)
		json.NewEncoder(w).Encode(map[string]string{"order_id": "order-42"})

	case r.URL.Path == "/checkout/create-session" && r.Method == http.MethodPost:
		json.NewDecoder(r.Body).Decode(&b.lastSession)
		json.NewEncoder(w).Encode(map[string]string{"url": "https://pay.example.com/cs_123"})

	case strings.HasPrefix(r.URL.Path, "/checkout/status/"):
		resp := map[string]string{"payment_status": "unpaid", "status": "open"}
		if len(b.statuses) > 0 {
			idx := b.statusCalls
			if idx >= len(b.statuses) {
				idx = len(b.statuses) - 1
			}
			resp = b.statuses[idx]
		}
		b.statusCalls++
		if resp == nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Internal Server Error"})
			return
		}
		json.NewEncoder(w).Encode(resp)

	default:
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not Found"})
	}
}

func (b *paymentBackend) calls() (status, cartFetch int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statusCalls, b.cartFetches
}

func newTestService(t *testing.T, backend *paymentBackend, cfg config.CheckoutConfig) *Service {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	api := rest.NewClient(srv.URL, 5*time.Second, log, metrics.Nop{})
	bridge := session.NewBridge(fakeProvider{}, api, config.SessionConfig{}, log)
	t.Cleanup(bridge.Close)
	bridge.Resync(context.Background())

	store := cart.NewStore(api, bridge, log)
	t.Cleanup(store.Close)

	return NewService(api, bridge, store, cfg, log)
}

func fastPoll() config.CheckoutConfig {
	return config.CheckoutConfig{PollInterval: 5 * time.Millisecond, PollAttempts: 5}
}

func validAddress() ShippingAddress {
	return ShippingAddress{
		FullName:     "Jo Smith",
		Phone:        "9876543210",
		AddressLine1: "1 Main Street",
		City:         "Chennai",
		State:        "TN",
		Pincode:      "600001",
	}
}

func TestInitiate(t *testing.T) {
	backend := &paymentBackend{}
	svc := newTestService(t, backend, fastPoll())

	url, err := svc.Initiate(context.Background(), validAddress(), "http://localhost:3000")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cs_123", url)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	require.NotNil(t, backend.lastOrder["shipping_address"])
	assert.Equal(t, "order-42", backend.lastSession["order_id"])
	assert.Equal(t, "http://localhost:3000", backend.lastSession["origin_url"])
}

func TestInitiateValidation(t *testing.T) {
	backend := &paymentBackend{}
	svc := newTestService(t, backend, fastPoll())

	addr := validAddress()
	addr.FullName = "  "
	_, err := svc.Initiate(context.Background(), addr, "http://localhost:3000")
	require.Error(t, err)
	assert.Equal(t, "please fill in full name", err.Error())

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Nil(t, backend.lastOrder)
}

func TestInitiateSurfacesBackendDetail(t *testing.T) {
	backend := &paymentBackend{orderDetail: "Cart is empty"}
	svc := newTestService(t, backend, fastPoll())

	_, err := svc.Initiate(context.Background(), validAddress(), "http://localhost:3000")
	require.Error(t, err)
	assert.Equal(t, "Cart is empty", rest.Detail(err, "checkout failed"))
}

func TestConfirmationPaidOnThirdPoll(t *testing.T) {
	backend := &paymentBackend{statuses: []map[string]string{
		{"payment_status": "unpaid", "status": "open"},
		{"payment_status": "unpaid", "status": "open"},
		{"payment_status": "paid", "status": "complete"},
	}}
	svc := newTestService(t, backend, fastPoll())

	status := svc.NewConfirmation("cs_123").Run(context.Background())
	assert.Equal(t, StatusSuccess, status)
	assert.True(t, status.Terminal())

	statusCalls, cartFetches := backend.calls()
	assert.Equal(t, 3, statusCalls)
	// Paid clears the cart server-side; exactly one refetch picks that up.
	assert.Equal(t, 1, cartFetches)
}

func TestConfirmationExpired(t *testing.T) {
	backend := &paymentBackend{statuses: []map[string]string{
		{"payment_status": "unpaid", "status": "expired"},
	}}
	svc := newTestService(t, backend, fastPoll())

	status := svc.NewConfirmation("cs_123").Run(context.Background())
	assert.Equal(t, StatusExpired, status)

	statusCalls, _ := backend.calls()
	assert.Equal(t, 1, statusCalls)
}

func TestConfirmationTimeout(t *testing.T) {
	backend := &paymentBackend{}
	svc := newTestService(t, backend, fastPoll())

	status := svc.NewConfirmation("cs_123").Run(context.Background())
	assert.Equal(t, StatusTimeout, status)

	statusCalls, _ := backend.calls()
	assert.Equal(t, 5, statusCalls)
}

func TestConfirmationErrorOnRequestFailure(t *testing.T) {
	backend := &paymentBackend{statuses: []map[string]string{nil}}
	svc := newTestService(t, backend, fastPoll())

	status := svc.NewConfirmation("cs_123").Run(context.Background())
	assert.Equal(t, StatusError, status)
}

func TestConfirmationSingleShot(t *testing.T) {
	backend := &paymentBackend{statuses: []map[string]string{
		{"payment_status": "paid", "status": "complete"},
	}}
	svc := newTestService(t, backend, fastPoll())

	confirmation := svc.NewConfirmation("cs_123")
	assert.Equal(t, StatusChecking, confirmation.Status())

	require.Equal(t, StatusSuccess, confirmation.Run(context.Background()))
	statusCalls, _ := backend.calls()
	require.Equal(t, 1, statusCalls)

	// Re-entry returns the recorded result without polling again.
	assert.Equal(t, StatusSuccess, confirmation.Run(context.Background()))
	statusCalls, _ = backend.calls()
	assert.Equal(t, 1, statusCalls)
}

func TestConfirmationCancelledBetweenPolls(t *testing.T) {
	backend := &paymentBackend{}
	svc := newTestService(t, backend, config.CheckoutConfig{
		PollInterval: 10 * time.Second,
		PollAttempts: 5,
	})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	status := svc.NewConfirmation("cs_123").Run(ctx)
	assert.Equal(t, StatusError, status)

	statusCalls, _ := backend.calls()
	assert.Equal(t, 1, statusCalls)
}
