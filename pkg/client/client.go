// Package client provides an HTTP-backed implementation of the
// project-creation collaborator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-intake/pkg/intake"
)

const defaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failure response is read when extracting a
// user-facing message.
const maxErrorBody = 1 << 16

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-request timeout applied when the caller's context
// carries no deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHeader adds a header to every request, e.g. an authorization token.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if strings.TrimSpace(key) == "" {
			return
		}
		c.headers.Set(key, value)
	}
}

// Client posts submissions to a project-creation endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	headers    http.Header
	timeout    time.Duration
}

var _ intake.ProjectCreator = (*Client)(nil)

// New constructs a client for the given endpoint URL.
func New(endpoint string, options ...Option) (*Client, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("client: parse endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: endpoint scheme %q not supported", parsed.Scheme)
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		headers:    make(http.Header),
		timeout:    defaultTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

type createResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Create posts the submission and returns the created project's identifier.
// Non-2xx responses become an *APIError carrying whatever message the server
// included.
func (c *Client) Create(ctx context.Context, submission intake.Submission) (intake.ProjectID, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return "", fmt.Errorf("client: encode submission: %w", err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("client: post submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(resp.Body),
		}
	}

	var decoded createResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("client: decode response: %w", err)
	}
	if decoded.ID == "" {
		return "", errors.New("client: response missing project id")
	}
	return intake.ProjectID(decoded.ID), nil
}

// APIError is a non-2xx response from the project-creation endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("client: unexpected status %d: %s", e.StatusCode, e.Message)
}

// UserMessage surfaces the server-provided message when there is one; the
// caller falls back to its own generic wording otherwise.
func (e *APIError) UserMessage() string {
	return e.Message
}

func extractMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}
	var decoded errorResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(decoded.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(decoded.Error)
}
