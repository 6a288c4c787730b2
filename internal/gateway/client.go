// Package gateway provides a typed REST client for the OctoOps backend.
// It implements a deep module interface - simple per-resource methods
// hiding request construction, credential handling, and decoding.
//
// The gateway is stateless: it carries the cookie-based session
// credentials but no entity state. Calls rely on the transport's default
// timeout behavior; cancellation comes from the caller's context.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/charmbracelet/log"
)

// APIError wraps a non-2xx backend response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// IsConflict reports whether err is an APIError with HTTP 409, the
// backend's "record already exists" answer.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

// Client is the OctoOps REST API client. The cookie jar holds the
// session credential set by Login/Signup; every subsequent call carries
// it automatically.
type Client struct {
	baseURL string
	http    *http.Client
	log     *log.Logger
}

// New creates a gateway client against baseURL.
func New(baseURL string, logger *log.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		log:     logger,
	}, nil
}

// do executes a JSON request against the API, decoding the response into
// out when non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		c.log.Debug("request failed", "method", method, "endpoint", endpoint, "status", resp.StatusCode)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) url(endpoint string) string {
	return c.baseURL + "/api/" + strings.TrimLeft(endpoint, "/")
}
