// internal/pkg/rest/client.go
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/pkg/metrics"
)

// Client makes JSON calls against the backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
	metrics    metrics.Recorder
}

// NewClient creates a backend API client. baseURL must include the /api
// prefix. recorder may be metrics.Nop{}.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger, recorder metrics.Recorder) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: recorder,
	}
}

// Do performs a JSON request and decodes the response into out (when out is
// non-nil). headers are added on top of the standard JSON headers; the
// session bridge supplies the Authorization header through them.
func (c *Client) Do(ctx context.Context, method, path string, headers map[string]string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordBackendError(method, path)
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.RecordBackendCall(method, path, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Get is shorthand for Do with method GET and no body.
func (c *Client) Get(ctx context.Context, path string, headers map[string]string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, headers, nil, out)
}

// Post is shorthand for Do with method POST.
func (c *Client) Post(ctx context.Context, path string, headers map[string]string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, headers, body, out)
}

// Put is shorthand for Do with method PUT.
func (c *Client) Put(ctx context.Context, path string, headers map[string]string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, headers, body, out)
}

// Delete is shorthand for Do with method DELETE and no body.
func (c *Client) Delete(ctx context.Context, path string, headers map[string]string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, headers, nil, out)
}
