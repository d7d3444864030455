// Package api is the shared call-construction layer for every backend
// transport in the client. It owns base-URL joining, JSON plumbing, and the
// one cross-cutting concern all collaborators share: attaching the current
// bearer token to outgoing requests.
package api

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

// TokenSource yields the bearer token for outgoing requests. An empty string
// means "no session": the request goes out anonymous. The token is read at
// request-construction time, so in-flight requests keep whatever token they
// were built with.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, mostly useful in tests.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Client wraps an HTTP client with the backend base URL and token source.
// All transport packages (auth, team, projects) build their requests
// through it so token attachment is never duplicated per endpoint.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
}

// ClientOption configures optional Client behavior.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption { return func(c *Client) { c.http = h } }

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// NewClient creates a client for the given base URL. tokens may be nil for a
// purely anonymous client.
func NewClient(baseURL string, tokens TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: 15 * time.Second},
		tokens: tokens,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewRequest builds a request against the base URL with the bearer token
// attached when one is available.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

// JSON performs a request with an optional JSON body and decodes a JSON
// response into out (which may be nil). Non-2xx responses become *Error.
func (c *Client) JSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	req, err := c.NewRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Text performs a request with an optional JSON body and returns the response
// body as plain text. Used for the backend's confirmation-message endpoints.
func (c *Client) Text(ctx context.Context, method, path string, in any) (string, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return "", err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	req, err := c.NewRequest(ctx, method, path, body, contentType)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", readError(resp)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Raw performs a request with a caller-built body (multipart uploads) and
// decodes a JSON response into out when non-nil.
func (c *Client) Raw(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := c.NewRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Error carries a non-2xx response: the status code plus the human-readable
// message extracted from the body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// readError extracts the error message from a non-2xx response body. The
// backend usually responds with {"message": "..."} but some endpoints return
// {"error": "..."} or bare text; all three are handled.
func readError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	msg := strings.TrimSpace(string(b))
	var parsed struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.Unmarshal(b, &parsed); err == nil {
		if parsed.Message != "" {
			msg = parsed.Message
		} else if parsed.Err != "" {
			msg = parsed.Err
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}
