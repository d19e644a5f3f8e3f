package app

import "github.com/craftparts/storefront-go/internal/catalog"

// NormalizeQuantity applies the presentation-layer quantity policy: a
// non-positive request becomes 1, and the caller is told when the result is
// still below the product's minimum order quantity so it can warn the buyer.
// The cart store itself never enforces the minimum.
func NormalizeQuantity(p catalog.Product, quantity int) (qty int, belowMOQ bool) {
	if quantity < 1 {
		quantity = 1
	}
	moq := p.MinQuantity
	if moq <= 0 {
		moq = 1
	}
	return quantity, quantity < moq
}
