package client

import (
	"context"
	"net/http"

	"github.com/craftparts/storefront-go/internal/cache"
)

const quotesPath = "/api/quotes"

// ListQuotes fetches all quotes (back office).
func (c *Client) ListQuotes(ctx context.Context) ([]Quote, error) {
	return c.listQuotes(ctx, quotesPath+"/admin")
}

// ListMyQuotes fetches the signed-in buyer's quotes.
func (c *Client) ListMyQuotes(ctx context.Context) ([]Quote, error) {
	return c.listQuotes(ctx, quotesPath+"/my")
}

func (c *Client) listQuotes(ctx context.Context, path string) ([]Quote, error) {
	return cache.Fetch(ctx, c.cache, path,
		cache.Options{TTL: ttlLong, Tags: []string{TagQuote}},
		func(ctx context.Context) ([]Quote, error) {
			var quotes []Quote
			err := c.get(ctx, path, nil, &quotes)
			return quotes, err
		})
}

// GetQuote fetches a single quote by id.
func (c *Client) GetQuote(ctx context.Context, id string) (Quote, error) {
	return cache.Fetch(ctx, c.cache, quotesPath+"/"+id,
		cache.Options{TTL: ttlLong, Tags: []string{TagQuote, EntityTag(TagQuote, id)}},
		func(ctx context.Context) (Quote, error) {
			var q Quote
			err := c.get(ctx, quotesPath+"/"+id, nil, &q)
			return q, err
		})
}

// CreateQuote submits a new quote request.
func (c *Client) CreateQuote(ctx context.Context, in QuoteInput) (Quote, error) {
	var q Quote
	if err := c.do(ctx, http.MethodPost, quotesPath, nil, in, &q); err != nil {
		return Quote{}, err
	}
	c.invalidate(MutCreateQuote)
	return q, nil
}

// UpdateQuote moves a quote through its lifecycle (back office).
func (c *Client) UpdateQuote(ctx context.Context, id string, in QuoteUpdate) (Quote, error) {
	var q Quote
	if err := c.do(ctx, http.MethodPut, quotesPath+"/"+id, nil, in, &q); err != nil {
		return Quote{}, err
	}
	c.invalidate(MutUpdateQuote, id)
	return q, nil
}

// DeleteQuote deletes a quote (back office).
func (c *Client) DeleteQuote(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, quotesPath+"/"+id, nil, nil, nil); err != nil {
		return err
	}
	c.invalidate(MutDeleteQuote, id)
	return nil
}
