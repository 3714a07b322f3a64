// Package catalog fetches the beer list from the remote catalog API.
package catalog

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kbukum/beer-inventory/errors"
	"github.com/kbukum/beer-inventory/httpclient"
	"github.com/kbukum/beer-inventory/httpclient/rest"
	"github.com/kbukum/beer-inventory/internal/beer"
	"github.com/kbukum/beer-inventory/logger"
	"github.com/kbukum/beer-inventory/observability"
)

const (
	// ErrCodeCatalogFetch marks any failure to retrieve or decode the catalog.
	ErrCodeCatalogFetch errors.ErrorCode = "CATALOG_FETCH_ERROR"

	// SettingURL is the configuration key holding the catalog endpoint.
	SettingURL = "catalog.url"
)

// URLResolver returns the catalog endpoint. It is called once per fetch so
// the endpoint is looked up before every run.
type URLResolver func() string

// StaticURL resolves to a fixed endpoint.
func StaticURL(url string) URLResolver {
	return func() string { return url }
}

// EnvURL resolves to the environment variable key when set, otherwise to
// fallback.
func EnvURL(key, fallback string) URLResolver {
	return func() string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return fallback
	}
}

// Client retrieves the full beer catalog with a single GET per call.
// It performs no retries; a shared *rest.Client provides the timeout and
// the optional circuit breaker.
type Client struct {
	rest *rest.Client
	url  URLResolver
	log  *logger.Logger
}

// NewClient creates a catalog client on top of a REST client.
func NewClient(rc *rest.Client, url URLResolver) *Client {
	return &Client{
		rest: rc,
		url:  url,
		log:  logger.WithComponent("catalog"),
	}
}

// URL returns the endpoint the next fetch would use.
func (c *Client) URL() string {
	return strings.TrimSpace(c.url())
}

// CircuitState reports the state of the underlying circuit breaker.
func (c *Client) CircuitState() string {
	return c.rest.HTTP().CircuitState()
}

// FetchAll returns every beer in the catalog in the order the API lists them.
//
// An empty endpoint fails with a CONFIGURATION_ERROR before any network
// call. Transport failures, non-2xx responses and undecodable bodies fail
// with CATALOG_FETCH_ERROR wrapping the underlying error; no partial result
// is ever returned.
func (c *Client) FetchAll(ctx context.Context) ([]beer.Beer, error) {
	url := c.URL()
	if url == "" {
		return nil, errors.Configuration(SettingURL)
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanCatalogFetch)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrCatalogURL, url)

	start := time.Now()
	resp, err := rest.Get[[]beer.Beer](ctx, c.rest, url)
	if err == nil && resp.Data == nil {
		err = httpclient.NewDecodeError(resp.StatusCode, nil, stderrors.New("catalog body is not a JSON array"))
	}
	if err != nil {
		fetchErr := newFetchError(url, err)
		observability.SetSpanError(ctx, fetchErr)
		c.log.WithContext(ctx).Warn("Beer catalog fetch failed", logger.Fields(
			"url", url,
			logger.FieldError, err.Error(),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
		return nil, fetchErr
	}

	observability.SetSpanAttribute(ctx, observability.AttrRecordCount, len(resp.Data))
	c.log.WithContext(ctx).Debug("Fetched beer catalog", logger.Fields(
		"url", url,
		"count", len(resp.Data),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return resp.Data, nil
}

func newFetchError(url string, cause error) *errors.AppError {
	appErr := errors.New(ErrCodeCatalogFetch, fmt.Sprintf("fetching beer catalog from %s failed", url)).
		WithCause(cause).
		WithDetail("url", url).
		WithRetryable(httpclient.IsRetryable(cause))

	var httpErr *httpclient.Error
	if stderrors.As(cause, &httpErr) {
		appErr.WithDetail("reason", httpErr.Code.String())
		if httpErr.StatusCode > 0 {
			appErr.WithDetail("status_code", httpErr.StatusCode)
		}
	}
	return appErr
}
