package client

import (
	"context"
	"net/http"

	"github.com/craftparts/storefront-go/internal/cache"
)

const invoicesPath = "/api/invoices"

// ListInvoices fetches all invoices (back office).
func (c *Client) ListInvoices(ctx context.Context) ([]Invoice, error) {
	return c.listInvoices(ctx, invoicesPath)
}

// ListMyInvoices fetches the signed-in buyer's invoices.
func (c *Client) ListMyInvoices(ctx context.Context) ([]Invoice, error) {
	return c.listInvoices(ctx, invoicesPath+"/my")
}

func (c *Client) listInvoices(ctx context.Context, path string) ([]Invoice, error) {
	return cache.Fetch(ctx, c.cache, path,
		cache.Options{TTL: ttlLong, Tags: []string{TagInvoice}},
		func(ctx context.Context) ([]Invoice, error) {
			var invoices []Invoice
			err := c.get(ctx, path, nil, &invoices)
			return invoices, err
		})
}

// GetInvoice fetches a single invoice by id.
func (c *Client) GetInvoice(ctx context.Context, id string) (Invoice, error) {
	return cache.Fetch(ctx, c.cache, invoicesPath+"/"+id,
		cache.Options{TTL: ttlLong, Tags: []string{TagInvoice, EntityTag(TagInvoice, id)}},
		func(ctx context.Context) (Invoice, error) {
			var inv Invoice
			err := c.get(ctx, invoicesPath+"/"+id, nil, &inv)
			return inv, err
		})
}

// CreateInvoice issues an invoice for an order (back office).
func (c *Client) CreateInvoice(ctx context.Context, in InvoiceInput) (Invoice, error) {
	var inv Invoice
	if err := c.do(ctx, http.MethodPost, invoicesPath, nil, in, &inv); err != nil {
		return Invoice{}, err
	}
	c.invalidate(MutCreateInvoice)
	return inv, nil
}

// UpdateInvoice updates an invoice (back office).
func (c *Client) UpdateInvoice(ctx context.Context, id string, in InvoiceInput) (Invoice, error) {
	var inv Invoice
	if err := c.do(ctx, http.MethodPut, invoicesPath+"/"+id, nil, in, &inv); err != nil {
		return Invoice{}, err
	}
	c.invalidate(MutUpdateInvoice, id)
	return inv, nil
}

// DeleteInvoice deletes an invoice (back office).
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, invoicesPath+"/"+id, nil, nil, nil); err != nil {
		return err
	}
	c.invalidate(MutDeleteInvoice, id)
	return nil
}
