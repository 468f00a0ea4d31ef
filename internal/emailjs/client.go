// Package emailjs is a small client for the EmailJS REST API.
package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the EmailJS send endpoint.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// maxErrorBody bounds how much of a failed response is kept.
const maxErrorBody = 1 << 10

// Client represents a client for the EmailJS send API
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithAccessToken sets the private key sent as accessToken. EmailJS requires
// it for calls that do not originate from a browser.
func WithAccessToken(token string) ClientOption {
	return func(c *Client) {
		c.accessToken = token
	}
}

// WithTimeout replaces the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new EmailJS client. An empty endpoint selects
// DefaultEndpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Send posts one templated email. Any non-2xx answer is returned as *Error.
func (c *Client) Send(ctx context.Context, req *Request) error {
	if err := c.validateRequest(req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	if req.AccessToken == "" {
		req.AccessToken = c.accessToken
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	if strings.TrimSpace(req.ServiceID) == "" {
		return fmt.Errorf("service_id is required")
	}
	if strings.TrimSpace(req.TemplateID) == "" {
		return fmt.Errorf("template_id is required")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}
	return nil
}
