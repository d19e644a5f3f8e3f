// Package client is the typed REST client for the storefront API, with
// response caching and tag-based invalidation layered on top.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/craftparts/storefront-go/internal/cache"
	"github.com/craftparts/storefront-go/pkg/httpclient"
)

// APIError is a non-2xx response from the storefront API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client talks to the storefront REST API. Query methods serve from the
// shared cache where possible; mutation methods invalidate the affected
// cache tags after success (see tags.go for the full table).
type Client struct {
	baseURL *url.URL
	http    *http.Client
	cache   *cache.Cache
	lg      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the API at baseURL, backed by the given cache.
func New(baseURL string, store *cache.Cache, lg *zap.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		cache:   store,
		lg:      lg.Named("client"),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: httpclient.Wrap(nil,
				httpclient.Instrument(),
				httpclient.RequestID(),
				httpclient.UserAgent("storefront-go"),
				httpclient.LogRequests(),
			),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// get performs a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// do performs a request with an optional JSON body and decodes the response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s response", method, path)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	}
	return apiErr
}

// invalidate applies the invalidation table for a completed mutation.
func (c *Client) invalidate(m Mutation, ids ...string) {
	tags := InvalidatedBy(m, ids...)
	if len(tags) == 0 {
		return
	}
	c.cache.InvalidateTags(tags...)
	c.lg.Debug("Invalidated cache", zap.String("mutation", string(m)), zap.Strings("tags", tags))
}
