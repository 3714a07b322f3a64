package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kbukum/beer-inventory/httpclient"
)

// Client decodes JSON responses on top of an httpclient.Client. Every
// request asks for application/json unless the config overrides Accept.
type Client struct {
	http *httpclient.Client
}

// New creates a REST client.
func New(cfg httpclient.Config) (*Client, error) {
	headers := map[string]string{"Accept": "application/json"}
	for k, v := range cfg.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	cfg.Headers = headers

	c, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// HTTP returns the underlying client.
func (c *Client) HTTP() *httpclient.Client { return c.http }

// Response is a decoded JSON response.
type Response[T any] struct {
	StatusCode int
	Header     http.Header
	Data       T
}

// Get fetches url and decodes the body into T. Non-2xx responses are
// returned as errors without decoding; a body that does not decode into T
// yields an httpclient decode error.
func Get[T any](ctx context.Context, c *Client, url string) (*Response[T], error) {
	resp, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodGet, URL: url})
	if err != nil {
		return nil, err
	}

	var data T
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, httpclient.NewDecodeError(resp.StatusCode, resp.Body, err)
	}
	return &Response[T]{StatusCode: resp.StatusCode, Header: resp.Header, Data: data}, nil
}
