package client

import "time"

// Cache tags, one per entity family. List queries are tagged with the family
// tag; by-id queries additionally carry EntityTag(family, id).
const (
	TagProduct  = "Product"
	TagCategory = "Category"
	TagQuote    = "Quote"
	TagOrder    = "Order"
	TagInvoice  = "Invoice"
	TagPayment  = "Payment"
)

// Retention periods. Reference data (categories) and slow-moving back-office
// listings keep longer than product pages.
const (
	ttlShort = 60 * time.Second
	ttlLong  = 5 * time.Minute
)

// EntityTag returns the per-entity cache tag, e.g. "Quote:661f...".
func EntityTag(family, id string) string {
	return family + ":" + id
}

// Mutation identifies a write operation against the API for invalidation
// purposes.
type Mutation string

const (
	MutCreateProduct Mutation = "product.create"
	MutUpdateProduct Mutation = "product.update"
	MutDeleteProduct Mutation = "product.delete"

	MutCreateCategory Mutation = "category.create"
	MutUpdateCategory Mutation = "category.update"
	MutDeleteCategory Mutation = "category.delete"

	MutCreateQuote Mutation = "quote.create"
	MutUpdateQuote Mutation = "quote.update"
	MutDeleteQuote Mutation = "quote.delete"

	MutCreateOrder          Mutation = "order.create"
	MutCreateOrderFromQuote Mutation = "order.create_from_quote"
	MutUpdateOrder          Mutation = "order.update"
	MutDeleteOrder          Mutation = "order.delete"

	MutCreateInvoice Mutation = "invoice.create"
	MutUpdateInvoice Mutation = "invoice.update"
	MutDeleteInvoice Mutation = "invoice.delete"

	MutAddPaymentFromInvoice Mutation = "payment.add_from_invoice"
	MutUpdatePayment         Mutation = "payment.update"
	MutDeletePayment         Mutation = "payment.delete"
)

// rule describes what a mutation invalidates: the family tags always, plus a
// per-entity tag for each id the caller passes when Entity is set.
type rule struct {
	Tags   []string
	Entity string
}

// invalidationTable is the single source of truth for mutation side effects
// on the cache. Creating an order from a quote also invalidates quotes (the
// quote transitions to confirmed); recording a payment against an invoice
// also invalidates invoices (the balance changes).
var invalidationTable = map[Mutation]rule{
	MutCreateProduct: {Tags: []string{TagProduct}},
	MutUpdateProduct: {Tags: []string{TagProduct}, Entity: TagProduct},
	MutDeleteProduct: {Tags: []string{TagProduct}, Entity: TagProduct},

	MutCreateCategory: {Tags: []string{TagCategory}},
	MutUpdateCategory: {Tags: []string{TagCategory}, Entity: TagCategory},
	MutDeleteCategory: {Tags: []string{TagCategory}, Entity: TagCategory},

	MutCreateQuote: {Tags: []string{TagQuote}},
	MutUpdateQuote: {Tags: []string{TagQuote}, Entity: TagQuote},
	MutDeleteQuote: {Tags: []string{TagQuote}, Entity: TagQuote},

	MutCreateOrder:          {Tags: []string{TagOrder}},
	MutCreateOrderFromQuote: {Tags: []string{TagOrder, TagQuote}, Entity: TagQuote},
	MutUpdateOrder:          {Tags: []string{TagOrder}, Entity: TagOrder},
	MutDeleteOrder:          {Tags: []string{TagOrder}, Entity: TagOrder},

	MutCreateInvoice: {Tags: []string{TagInvoice}},
	MutUpdateInvoice: {Tags: []string{TagInvoice}, Entity: TagInvoice},
	MutDeleteInvoice: {Tags: []string{TagInvoice}, Entity: TagInvoice},

	MutAddPaymentFromInvoice: {Tags: []string{TagPayment, TagInvoice}, Entity: TagInvoice},
	MutUpdatePayment:         {Tags: []string{TagPayment}, Entity: TagPayment},
	MutDeletePayment:         {Tags: []string{TagPayment}, Entity: TagPayment},
}

// InvalidatedBy returns the cache tags a mutation invalidates. ids are the
// affected entity ids, when the mutation targets specific entities.
func InvalidatedBy(m Mutation, ids ...string) []string {
	r, ok := invalidationTable[m]
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(r.Tags)+len(ids))
	tags = append(tags, r.Tags...)
	if r.Entity != "" {
		for _, id := range ids {
			tags = append(tags, EntityTag(r.Entity, id))
		}
	}
	return tags
}
