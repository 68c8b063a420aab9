package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/parley/pkg/domain"
)

// Client implements ports.ServiceClient over the JSON-over-HTTP contract.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithTimeout bounds each request. Hops must not block a turn forever.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient swaps the underlying HTTP client (tests, custom transports).
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates a client for the service at the given endpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "http://" + endpoint
	}
	c := &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %s%s", domain.ErrDownstreamTimeout, c.baseURL, path)
		}
		return fmt.Errorf("request to %s%s failed: %w", c.baseURL, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request to %s%s failed: status %d", c.baseURL, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Create provisions caller-specific resources on the service.
func (c *Client) Create(ctx context.Context, userID string, spec []string) error {
	return c.post(ctx, "/create", CreateRequest{UserID: userID, Spec: spec}, nil)
}

// Learn ingests out-of-band training data.
func (c *Client) Learn(ctx context.Context, userID string, knowledge []string) error {
	return c.post(ctx, "/learn", LearnRequest{UserID: userID, Knowledge: knowledge}, nil)
}

// Infer sends the conversation log and returns the newest fragment.
func (c *Client) Infer(ctx context.Context, userID string, turns []string) (string, error) {
	var resp InferResponse
	req := InferRequest{UserID: userID, Query: NewTextQuery(turns)}
	if err := c.post(ctx, "/infer", req, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}
