package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/kbukum/beer-inventory/resilience"
)

// Request is a single outbound call. URL must be absolute.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client sends requests with a bounded timeout and classifies every
// failure as an *Error.
type Client struct {
	http *http.Client
	cfg  Config
	cb   *resilience.CircuitBreaker
}

// New creates a Client. Connections are pooled and reused across calls.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		http: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		cfg: cfg,
	}
	if cfg.CircuitBreaker != nil {
		cb := *cfg.CircuitBreaker
		if cb.IsFailure == nil {
			cb.IsFailure = IsRetryable
		}
		c.cb = resilience.NewCircuitBreaker(cb)
	}
	return c, nil
}

// Do sends req. A non-2xx response returns the response together with an
// *Error classifying the status. While the circuit is open Do returns
// resilience.ErrCircuitOpen without sending anything.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.cb == nil {
		return c.send(ctx, req)
	}
	var resp *Response
	err := c.cb.Execute(func() error {
		var err error
		resp, err = c.send(ctx, req)
		return err
	})
	return resp, err
}

// Timeout returns the per-request timeout in effect.
func (c *Client) Timeout() time.Duration { return c.http.Timeout }

// CircuitState reports the breaker state, or "disabled" without one.
func (c *Client) CircuitState() string {
	if c.cb == nil {
		return "disabled"
	}
	return c.cb.State().String()
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	if req.URL == "" {
		return nil, NewValidationError("request URL is empty")
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	hreq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}
	if c.cfg.UserAgent != "" {
		hreq.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	for _, headers := range []map[string]string{c.cfg.Headers, req.Headers} {
		for k, v := range headers {
			hreq.Header.Set(k, v)
		}
	}

	hresp, err := c.http.Do(hreq)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer func() { _ = hresp.Body.Close() }()

	body, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, transportError(ctx, fmt.Errorf("read response body: %w", err))
	}

	resp := &Response{StatusCode: hresp.StatusCode, Header: hresp.Header, Body: body}
	if err := ClassifyStatusCode(hresp.StatusCode, body); err != nil {
		return resp, err
	}
	return resp, nil
}

func transportError(ctx context.Context, err error) *Error {
	var netErr net.Error
	if ctx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}
