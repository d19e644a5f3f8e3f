package client

import (
	"context"
	"net/http"

	"github.com/craftparts/storefront-go/internal/cache"
)

const ordersPath = "/api/orders"

// ListOrders fetches all orders (back office).
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	return c.listOrders(ctx, ordersPath)
}

// ListMyOrders fetches the signed-in buyer's orders.
func (c *Client) ListMyOrders(ctx context.Context) ([]Order, error) {
	return c.listOrders(ctx, ordersPath+"/my")
}

func (c *Client) listOrders(ctx context.Context, path string) ([]Order, error) {
	return cache.Fetch(ctx, c.cache, path,
		cache.Options{TTL: ttlShort, Tags: []string{TagOrder}},
		func(ctx context.Context) ([]Order, error) {
			var orders []Order
			err := c.get(ctx, path, nil, &orders)
			return orders, err
		})
}

// GetOrder fetches a single order by id.
func (c *Client) GetOrder(ctx context.Context, id string) (Order, error) {
	return cache.Fetch(ctx, c.cache, ordersPath+"/"+id,
		cache.Options{TTL: ttlShort, Tags: []string{TagOrder, EntityTag(TagOrder, id)}},
		func(ctx context.Context) (Order, error) {
			var o Order
			err := c.get(ctx, ordersPath+"/"+id, nil, &o)
			return o, err
		})
}

// CreateOrder creates an order directly.
func (c *Client) CreateOrder(ctx context.Context, in OrderInput) (Order, error) {
	var o Order
	if err := c.do(ctx, http.MethodPost, ordersPath, nil, in, &o); err != nil {
		return Order{}, err
	}
	c.invalidate(MutCreateOrder)
	return o, nil
}

// CreateOrderFromQuote converts a confirmed quote into an order. Both the
// order and quote caches are invalidated: the quote's status changes too.
func (c *Client) CreateOrderFromQuote(ctx context.Context, quoteID string) (Order, error) {
	var o Order
	if err := c.do(ctx, http.MethodPost, ordersPath+"/from-quote/"+quoteID, nil, nil, &o); err != nil {
		return Order{}, err
	}
	c.invalidate(MutCreateOrderFromQuote, quoteID)
	return o, nil
}

// UpdateOrder adjusts an order (back office).
func (c *Client) UpdateOrder(ctx context.Context, id string, in OrderUpdate) (Order, error) {
	var o Order
	if err := c.do(ctx, http.MethodPut, ordersPath+"/"+id, nil, in, &o); err != nil {
		return Order{}, err
	}
	c.invalidate(MutUpdateOrder, id)
	return o, nil
}

// DeleteOrder deletes an order (back office).
func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, ordersPath+"/"+id, nil, nil, nil); err != nil {
		return err
	}
	c.invalidate(MutDeleteOrder, id)
	return nil
}
