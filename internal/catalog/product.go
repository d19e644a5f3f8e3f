package catalog

import "github.com/shopspring/decimal"

// Product is a catalog item as served by the remote API.
type Product struct {
	ID            string          `json:"_id"`
	Name          string          `json:"name"`
	ProductType   string          `json:"productType"`
	CategoryID    string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	MinQuantity   int             `json:"moq"`
	Specification string          `json:"specification"`
}

// Pagination describes the server-reported position of a product page.
// The client never computes these values locally.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ProductPage is one page of a paginated product listing.
type ProductPage struct {
	Data       []Product  `json:"data"`
	Pagination Pagination `json:"pagination"`
}
