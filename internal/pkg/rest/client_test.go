// internal/pkg/rest/client_test.go
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/pkg/metrics"
)

func newTestRESTClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(srv.URL, 5*time.Second, log, metrics.Nop{})
}

func TestDoSendsJSONAndDecodes(t *testing.T) {
	client := newTestRESTClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart/add", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["product_id"])

		json.NewEncoder(w).Encode(map[string]string{"message": "Added to cart"})
	}))

	headers := map[string]string{"Authorization": "Bearer test-token"}
	var out struct {
		Message string `json:"message"`
	}
	err := client.Post(context.Background(), "/cart/add", headers, map[string]string{"product_id": "p1"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Added to cart", out.Message)
}

func TestDoGetOmitsContentType(t *testing.T) {
	client := newTestRESTClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		json.NewEncoder(w).Encode(map[string]string{})
	}))

	err := client.Get(context.Background(), "/products", nil, nil)
	require.NoError(t, err)
}

func TestDoDecodesDetailError(t *testing.T) {
	client := newTestRESTClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Insufficient stock"})
	}))

	err := client.Post(context.Background(), "/cart/add", nil, map[string]string{}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Insufficient stock", apiErr.Detail)
	assert.Equal(t, "Insufficient stock", Detail(err, "fallback"))
}

func TestDoNonJSONErrorBody(t *testing.T) {
	client := newTestRESTClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable\n"))
	}))

	err := client.Get(context.Background(), "/cart", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream unavailable", apiErr.Detail)
}

func TestStatusHelpers(t *testing.T) {
	unauthorized := &APIError{StatusCode: http.StatusUnauthorized}
	notFound := &APIError{StatusCode: http.StatusNotFound}

	assert.True(t, IsUnauthorized(unauthorized))
	assert.False(t, IsUnauthorized(notFound))
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(unauthorized))
	assert.False(t, IsUnauthorized(errors.New("plain error")))
}

func TestDetailFallback(t *testing.T) {
	assert.Equal(t, "fallback", Detail(errors.New("network down"), "fallback"))
	assert.Equal(t, "fallback", Detail(&APIError{StatusCode: 500}, "fallback"))
}
