package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/craftparts/storefront-go/internal/cache"
)

const paymentsPath = "/api/payments"

// ListPayments fetches all payments (back office).
func (c *Client) ListPayments(ctx context.Context) ([]Payment, error) {
	return c.listPayments(ctx, paymentsPath, nil)
}

// ListMyPayments fetches the signed-in buyer's payments.
func (c *Client) ListMyPayments(ctx context.Context) ([]Payment, error) {
	return c.listPayments(ctx, paymentsPath+"/my", nil)
}

// ListPaymentsByInvoice fetches the payments recorded against one invoice.
func (c *Client) ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]Payment, error) {
	return c.listPayments(ctx, paymentsPath, url.Values{"invoice": {invoiceID}})
}

func (c *Client) listPayments(ctx context.Context, path string, query url.Values) ([]Payment, error) {
	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}
	return cache.Fetch(ctx, c.cache, key,
		cache.Options{TTL: ttlLong, Tags: []string{TagPayment}},
		func(ctx context.Context) ([]Payment, error) {
			var payments []Payment
			err := c.get(ctx, path, query, &payments)
			return payments, err
		})
}

// GetPayment fetches a single payment by id.
func (c *Client) GetPayment(ctx context.Context, id string) (Payment, error) {
	return cache.Fetch(ctx, c.cache, paymentsPath+"/"+id,
		cache.Options{TTL: ttlLong, Tags: []string{TagPayment, EntityTag(TagPayment, id)}},
		func(ctx context.Context) (Payment, error) {
			var p Payment
			err := c.get(ctx, paymentsPath+"/"+id, nil, &p)
			return p, err
		})
}

// AddPaymentFromInvoice records a payment against an invoice. The invoice
// caches are invalidated too: the outstanding balance changed.
func (c *Client) AddPaymentFromInvoice(ctx context.Context, invoiceID string, in PaymentInput) (Payment, error) {
	var p Payment
	if err := c.do(ctx, http.MethodPost, paymentsPath+"/from-invoice/"+invoiceID, nil, in, &p); err != nil {
		return Payment{}, err
	}
	c.invalidate(MutAddPaymentFromInvoice, invoiceID)
	return p, nil
}

// UpdatePayment corrects a payment record (back office).
func (c *Client) UpdatePayment(ctx context.Context, id string, in PaymentInput) (Payment, error) {
	var p Payment
	if err := c.do(ctx, http.MethodPut, paymentsPath+"/"+id, nil, in, &p); err != nil {
		return Payment{}, err
	}
	c.invalidate(MutUpdatePayment, id)
	return p, nil
}

// DeletePayment deletes a payment record (back office).
func (c *Client) DeletePayment(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, paymentsPath+"/"+id, nil, nil, nil); err != nil {
		return err
	}
	c.invalidate(MutDeletePayment, id)
	return nil
}
