package client

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/craftparts/storefront-go/internal/catalog"
)

// QuoteStatus is the lifecycle state of a quote request.
type QuoteStatus string

const (
	QuoteRequested QuoteStatus = "requested"
	QuoteQuoted    QuoteStatus = "quoted"
	QuoteConfirmed QuoteStatus = "confirmed"
	QuoteRejected  QuoteStatus = "rejected"
)

// QuoteItem is one product line inside a quote. Price is zero until the
// back office quotes it.
type QuoteItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Quote is a buyer-initiated pricing request progressing through
// requested -> quoted -> confirmed/rejected, convertible to an order.
type Quote struct {
	ID        string      `json:"_id"`
	UserID    string      `json:"user"`
	Items     []QuoteItem `json:"items"`
	Status    QuoteStatus `json:"status"`
	Note      string      `json:"note"`
	CreatedAt time.Time   `json:"createdAt"`
}

// QuoteItemInput is one requested product line in a new quote.
type QuoteItemInput struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// QuoteInput is the payload for creating a quote request.
type QuoteInput struct {
	Items []QuoteItemInput `json:"items"`
	Note  string           `json:"note,omitempty"`
}

// QuoteUpdate is the back-office payload for moving a quote through its
// lifecycle and setting quoted prices.
type QuoteUpdate struct {
	Status QuoteStatus `json:"status,omitempty"`
	Items  []QuoteItem `json:"items,omitempty"`
	Note   string      `json:"note,omitempty"`
}

// OrderItem is one product line in an order.
type OrderItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order is a confirmed purchase, usually created from a confirmed quote.
type Order struct {
	ID        string          `json:"_id"`
	QuoteID   string          `json:"quote,omitempty"`
	UserID    string          `json:"user"`
	Items     []OrderItem     `json:"items"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// OrderInput is the payload for creating an order directly.
type OrderInput struct {
	Items []QuoteItemInput `json:"items"`
}

// OrderUpdate is the back-office payload for adjusting an order.
type OrderUpdate struct {
	Status string      `json:"status,omitempty"`
	Items  []OrderItem `json:"items,omitempty"`
}

// Invoice bills an order.
type Invoice struct {
	ID        string          `json:"_id"`
	OrderID   string          `json:"order"`
	Amount    decimal.Decimal `json:"amount"`
	Paid      decimal.Decimal `json:"paid"`
	Status    string          `json:"status"`
	DueDate   *time.Time      `json:"dueDate,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// InvoiceInput is the back-office payload for issuing an invoice.
type InvoiceInput struct {
	OrderID string     `json:"order"`
	Amount  float64    `json:"amount"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// Payment records money received against an invoice.
type Payment struct {
	ID        string          `json:"_id"`
	InvoiceID string          `json:"invoice"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
	CreatedAt time.Time       `json:"createdAt"`
}

// PaymentInput is the payload for recording a payment against an invoice.
type PaymentInput struct {
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference,omitempty"`
}

// ProductInput is the payload for creating or updating a product.
// Money travels as a plain number on the wire.
type ProductInput struct {
	Name          string  `json:"name"`
	ProductType   string  `json:"productType"`
	CategoryID    string  `json:"category"`
	Price         float64 `json:"price"`
	Image         string  `json:"image,omitempty"`
	MinQuantity   int     `json:"moq,omitempty"`
	Specification string  `json:"specification,omitempty"`
}

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	ProductType string              `json:"productType"`
	DisplayName string              `json:"displayName"`
	Filters     []catalog.FilterDef `json:"filters,omitempty"`
}
