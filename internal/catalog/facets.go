package catalog

import "sort"

// WideFacetThreshold is the number of values above which a facet should be
// rendered with a searchable multi-select instead of a plain chip list.
// Presentation tuning, not a structural invariant.
const WideFacetThreshold = 15

// Facet is one merged filterable attribute derived from the categories that
// match the selected product type.
type Facet struct {
	Key         string
	DisplayName string
	Values      []string
	Order       int
}

// Wide reports whether the facet has too many values for a plain chip list.
func (f Facet) Wide() bool {
	return len(f.Values) > WideFacetThreshold
}

// Derived is the result of DeriveFacets: everything a filter sidebar needs.
type Derived struct {
	// ProductTypes lists every distinct product type in the input,
	// de-duplicated in first-seen order.
	ProductTypes []string
	// RelatedCategories is the subset of the input whose product type equals
	// the selected one, in input order. Empty when no type is selected.
	RelatedCategories []Category
	// Facets are the merged filter definitions of the related categories,
	// sorted ascending by Order with first-seen key order breaking ties.
	Facets []Facet
}

// DeriveFacets computes the available product types, the categories belonging
// to the selected type, and their merged attribute facets.
//
// Merging rules: categories are visited in input order and their filter
// definitions in declaration order. The first occurrence of a key fixes its
// display name and order; values from later occurrences are unioned in,
// de-duplicated, keeping first-seen order.
//
// The function is referentially transparent and does not mutate its inputs.
func DeriveFacets(categories []Category, selectedType string) Derived {
	d := Derived{}

	seenTypes := make(map[string]struct{})
	for _, cat := range categories {
		if _, ok := seenTypes[cat.ProductType]; !ok {
			seenTypes[cat.ProductType] = struct{}{}
			d.ProductTypes = append(d.ProductTypes, cat.ProductType)
		}
	}

	if selectedType == "" {
		return d
	}
	for _, cat := range categories {
		if cat.ProductType == selectedType {
			d.RelatedCategories = append(d.RelatedCategories, cat)
		}
	}

	type acc struct {
		facet Facet
		seen  map[string]struct{}
	}
	var order []string
	merged := make(map[string]*acc)

	for _, cat := range d.RelatedCategories {
		for _, def := range cat.Filters {
			a, ok := merged[def.Key]
			if !ok {
				a = &acc{
					facet: Facet{
						Key:         def.Key,
						DisplayName: def.DisplayName,
						Order:       def.Order,
					},
					seen: make(map[string]struct{}),
				}
				merged[def.Key] = a
				order = append(order, def.Key)
			}
			for _, v := range def.Values {
				if _, dup := a.seen[v]; dup {
					continue
				}
				a.seen[v] = struct{}{}
				a.facet.Values = append(a.facet.Values, v)
			}
		}
	}

	d.Facets = make([]Facet, 0, len(order))
	for _, key := range order {
		d.Facets = append(d.Facets, merged[key].facet)
	}
	sort.SliceStable(d.Facets, func(i, j int) bool {
		return d.Facets[i].Order < d.Facets[j].Order
	})

	return d
}
