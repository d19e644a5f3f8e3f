package listing

// windowSize is how many consecutive page numbers surround the current page
// in the pagination bar.
const windowSize = 5

// PageRef is one slot in a pagination bar: either a concrete page number or
// an ellipsis marker.
type PageRef struct {
	Page     int
	Current  bool
	Ellipsis bool
}

// Window lays out a pagination bar: a run of windowSize pages centered on
// current, plus the first and last page with ellipsis markers where pages are
// skipped. Returns nil when there is nothing to paginate.
func Window(current, total int) []PageRef {
	if total <= 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := current - windowSize/2
	end := current + windowSize/2
	if start < 1 {
		end += 1 - start
		start = 1
	}
	if end > total {
		start -= end - total
		end = total
	}
	if start < 1 {
		start = 1
	}

	refs := make([]PageRef, 0, end-start+5)
	if start > 1 {
		refs = append(refs, PageRef{Page: 1})
		if start > 2 {
			refs = append(refs, PageRef{Ellipsis: true})
		}
	}
	for p := start; p <= end; p++ {
		refs = append(refs, PageRef{Page: p, Current: p == current})
	}
	if end < total {
		if end < total-1 {
			refs = append(refs, PageRef{Ellipsis: true})
		}
		refs = append(refs, PageRef{Page: total})
	}
	return refs
}
