package client

import (
	"context"
	"net/http"

	"github.com/craftparts/storefront-go/internal/cache"
	"github.com/craftparts/storefront-go/internal/catalog"
)

const (
	productsPath      = "/api/products"
	productsAdminPath = "/api/products/admin"
)

// ListProducts fetches one page of the public product listing. Each distinct
// query is cached under its own key.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (catalog.ProductPage, error) {
	return cache.Fetch(ctx, c.cache, q.CacheKey(productsPath),
		cache.Options{TTL: ttlShort, Tags: []string{TagProduct}},
		func(ctx context.Context) (catalog.ProductPage, error) {
			var page catalog.ProductPage
			err := c.get(ctx, productsPath, q.Values(), &page)
			return page, err
		})
}

// ListProductsAdmin fetches one page of the back-office product listing,
// which includes unpublished products.
func (c *Client) ListProductsAdmin(ctx context.Context, q ProductQuery) (catalog.ProductPage, error) {
	return cache.Fetch(ctx, c.cache, q.CacheKey(productsAdminPath),
		cache.Options{TTL: ttlShort, Tags: []string{TagProduct}},
		func(ctx context.Context) (catalog.ProductPage, error) {
			var page catalog.ProductPage
			err := c.get(ctx, productsAdminPath, q.Values(), &page)
			return page, err
		})
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	return cache.Fetch(ctx, c.cache, productsPath+"/"+id,
		cache.Options{TTL: ttlShort, Tags: []string{TagProduct, EntityTag(TagProduct, id)}},
		func(ctx context.Context) (catalog.Product, error) {
			var p catalog.Product
			err := c.get(ctx, productsPath+"/"+id, nil, &p)
			return p, err
		})
}

// CreateProduct creates a product and invalidates product listings.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (catalog.Product, error) {
	var p catalog.Product
	if err := c.do(ctx, http.MethodPost, productsPath, nil, in, &p); err != nil {
		return catalog.Product{}, err
	}
	c.invalidate(MutCreateProduct)
	return p, nil
}

// UpdateProduct updates a product and invalidates both the product listings
// and the product's own entry.
func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (catalog.Product, error) {
	var p catalog.Product
	if err := c.do(ctx, http.MethodPut, productsPath+"/"+id, nil, in, &p); err != nil {
		return catalog.Product{}, err
	}
	c.invalidate(MutUpdateProduct, id)
	return p, nil
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, productsPath+"/"+id, nil, nil, nil); err != nil {
		return err
	}
	c.invalidate(MutDeleteProduct, id)
	return nil
}
