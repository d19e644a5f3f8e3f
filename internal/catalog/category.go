package catalog

// Category is a read-only snapshot of a catalog category as served by the
// remote API. The client never mutates categories; it only derives filter
// facets from them.
type Category struct {
	ID          string      `json:"_id"`
	ProductType string      `json:"productType"`
	DisplayName string      `json:"displayName"`
	Filters     []FilterDef `json:"filters"`
}

// FilterDef declares one filterable attribute exposed by a category.
// The wire format capitalizes Key; all other fields are lowerCamel.
type FilterDef struct {
	Key         string   `json:"Key"`
	DisplayName string   `json:"displayName"`
	Values      []string `json:"values"`
	Order       int      `json:"order"`
}
