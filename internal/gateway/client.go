package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/muurk/formwiz/internal/logging"
	"github.com/muurk/formwiz/internal/schema"
	"github.com/muurk/formwiz/internal/version"
)

const (
	// DefaultEndpoint is the hosted form gateway
	DefaultEndpoint = "https://dynamic-form-generator-9rl7.onrender.com"

	// DefaultTimeout bounds each HTTP attempt
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is zero: a failed call is reported, not repeated
	DefaultMaxRetries = 0

	// DefaultRetryDelay is the initial delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second

	// maxBodySize caps how much of a response is read
	maxBodySize = 4 << 20
)

// Client talks to a form gateway over HTTP
type Client struct {
	// BaseURL is the gateway root (e.g., "http://localhost:8080")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UserAgent is sent with every request
	UserAgent string
}

// NewClient creates a new gateway client for baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
		UserAgent:     version.UserAgent(),
	}
}

// SetTimeout sets the per-attempt HTTP timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// RegisterUser creates (or re-creates) the user on the gateway
func (c *Client) RegisterUser(ctx context.Context, id Identity) (*Ack, error) {
	body, err := json.Marshal(createUserRequest{RollNumber: id.ID, Name: id.Name})
	if err != nil {
		return nil, NewParseError(OpRegister, "failed to encode request", err)
	}

	data, err := c.do(ctx, OpRegister, http.MethodPost, c.BaseURL+"/create-user", body)
	if err != nil {
		return nil, err
	}

	var ack Ack
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &ack); err != nil {
			return nil, NewParseError(OpRegister, "failed to parse JSON response", err)
		}
	}
	return &ack, nil
}

// FetchSchema retrieves the form assigned to rollNumber. It returns
// (nil, nil) when the gateway answers successfully without a form.
func (c *Client) FetchSchema(ctx context.Context, rollNumber string) (*schema.Form, error) {
	q := url.Values{"rollNumber": {rollNumber}}
	data, err := c.do(ctx, OpFetch, http.MethodGet, c.BaseURL+"/get-form?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	form, _, err := schema.DecodeResponse(data)
	if err != nil {
		return nil, NewParseError(OpFetch, "failed to parse JSON response", err)
	}
	return form, nil
}

// do runs one request with the client's retry policy and returns the body
// of a 2xx response.
func (c *Client) do(ctx context.Context, op Operation, method, target string, body []byte) ([]byte, error) {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, NewNetworkError(op, "request cancelled", ctx.Err())
			case <-time.After(currentDelay):
			}

			currentDelay *= 2
			if currentDelay > c.MaxRetryDelay {
				currentDelay = c.MaxRetryDelay
			}
		}

		data, err := c.attempt(ctx, op, method, target, body)
		if err == nil {
			return data, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

// attempt performs a single HTTP round trip
func (c *Client) attempt(ctx context.Context, op Operation, method, target string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, NewNetworkError(op, fmt.Sprintf("failed to create %s request", method), err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	logging.LogGatewayRequest(method, target, len(body))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError(op, fmt.Sprintf("%s request failed", method), err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewNetworkError(op, "failed to read response body", err)
	}

	logging.LogGatewayResponse(method, target, resp.StatusCode, data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewRejectionError(op, resp.StatusCode, extractMessage(data))
	}

	return data, nil
}

// extractMessage pulls "message" out of an error body, ignoring bodies that
// are not JSON.
func extractMessage(data []byte) string {
	var mb messageBody
	if err := json.Unmarshal(data, &mb); err != nil {
		return ""
	}
	return strings.TrimSpace(mb.Message)
}
