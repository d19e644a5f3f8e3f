package client

import (
	"context"
	"net/http"

	"github.com/craftparts/storefront-go/internal/cache"
	"github.com/craftparts/storefront-go/internal/catalog"
)

const categoriesPath = "/api/categories"

// ListCategories fetches the full category list. Categories change rarely, so
// they are retained longer than product pages.
func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return cache.Fetch(ctx, c.cache, categoriesPath,
		cache.Options{TTL: ttlLong, Tags: []string{TagCategory}},
		func(ctx context.Context) ([]catalog.Category, error) {
			var cats []catalog.Category
			err := c.get(ctx, categoriesPath, nil, &cats)
			return cats, err
		})
}

// GetCategory fetches a single category by id.
func (c *Client) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	return cache.Fetch(ctx, c.cache, categoriesPath+"/"+id,
		cache.Options{TTL: ttlLong, Tags: []string{TagCategory, EntityTag(TagCategory, id)}},
		func(ctx context.Context) (catalog.Category, error) {
			var cat catalog.Category
			err := c.get(ctx, categoriesPath+"/"+id, nil, &cat)
			return cat, err
		})
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (catalog.Category, error) {
	var cat catalog.Category
	if err := c.do(ctx, http.MethodPost, categoriesPath, nil, in, &cat); err != nil {
		return catalog.Category{}, err
	}
	c.invalidate(MutCreateCategory)
	return cat, nil
}

// UpdateCategory updates a category.
func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) (catalog.Category, error) {
	var cat catalog.Category
	if err := c.do(ctx, http.MethodPut, categoriesPath+"/"+id, nil, in, &cat); err != nil {
		return catalog.Category{}, err
	}
	c.invalidate(MutUpdateCategory, id)
	return cat, nil
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, categoriesPath+"/"+id, nil, nil, nil); err != nil {
		return err
	}
	c.invalidate(MutDeleteCategory, id)
	return nil
}
