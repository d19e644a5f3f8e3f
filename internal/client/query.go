package client

import (
	"net/url"
	"sort"
	"strconv"
)

// ProductQuery are the parameters of a paginated product listing request.
// The zero value lists everything, first page, server default page size.
type ProductQuery struct {
	ProductType string
	CategoryIDs []string
	Attributes  map[string][]string
	Page        int
	Limit       int
}

// Values encodes the query in the API's wire form: repeated categoryIds,
// nested attributes[key] params, page and limit. Categories and attribute
// keys are sorted so that equal queries always encode identically; the
// encoding doubles as the cache key.
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	if q.ProductType != "" {
		v.Set("productType", q.ProductType)
	}

	ids := make([]string, 0, len(q.CategoryIDs))
	for _, id := range q.CategoryIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		v.Add("categoryIds", id)
	}

	keys := make([]string, 0, len(q.Attributes))
	for key := range q.Attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, val := range q.Attributes[key] {
			if val != "" {
				v.Add("attributes["+key+"]", val)
			}
		}
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// CacheKey returns the cache key for this query under the given endpoint
// path.
func (q ProductQuery) CacheKey(path string) string {
	return path + "?" + q.Values().Encode()
}
