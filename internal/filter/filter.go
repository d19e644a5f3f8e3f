// Package filter holds the catalog browsing selections: product type,
// category set, and attribute values. Selections are session-only state;
// nothing here touches the network or disk.
package filter

import (
	"slices"
	"sync"
)

// Selection is one independent set of filter choices. The storefront and the
// admin product list each own their instance; construct as many as needed
// instead of sharing package state.
//
// Changing the product type always clears categories and attributes:
// selections are scoped to a product type.
type Selection struct {
	defaultType string

	mu          sync.Mutex
	productType string
	categoryIDs []string
	attributes  map[string][]string
	version     uint64
	subs        []func()
}

// NewSelection creates a Selection whose initial and reset product type is
// defaultType. Pass "" for no preselected type.
func NewSelection(defaultType string) *Selection {
	return &Selection{
		defaultType: defaultType,
		productType: defaultType,
		attributes:  make(map[string][]string),
	}
}

// SetProductType replaces the selected product type and unconditionally
// clears the category and attribute selections, even when the type is
// unchanged.
func (s *Selection) SetProductType(productType string) {
	s.mu.Lock()
	s.productType = productType
	s.categoryIDs = nil
	s.attributes = make(map[string][]string)
	s.bump()
	s.mu.Unlock()
	s.notify()
}

// ToggleCategoryID adds the id to the selection if absent, removes it if
// present.
func (s *Selection) ToggleCategoryID(id string) {
	s.mu.Lock()
	if i := slices.Index(s.categoryIDs, id); i >= 0 {
		s.categoryIDs = slices.Delete(s.categoryIDs, i, i+1)
	} else {
		s.categoryIDs = append(s.categoryIDs, id)
	}
	s.bump()
	s.mu.Unlock()
	s.notify()
}

// ToggleAttribute adds value under key if not selected, removes it otherwise.
// A key whose last value is removed disappears entirely.
func (s *Selection) ToggleAttribute(key, value string) {
	s.mu.Lock()
	current := s.attributes[key]
	if i := slices.Index(current, value); i >= 0 {
		current = slices.Delete(current, i, i+1)
		if len(current) == 0 {
			delete(s.attributes, key)
		} else {
			s.attributes[key] = current
		}
	} else {
		s.attributes[key] = append(current, value)
	}
	s.bump()
	s.mu.Unlock()
	s.notify()
}

// Reset restores the initial state: default product type, no categories, no
// attributes.
func (s *Selection) Reset() {
	s.mu.Lock()
	s.productType = s.defaultType
	s.categoryIDs = nil
	s.attributes = make(map[string][]string)
	s.bump()
	s.mu.Unlock()
	s.notify()
}

// ProductType returns the selected product type, or "" when none.
func (s *Selection) ProductType() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productType
}

// CategoryIDs returns a copy of the selected category ids in toggle order.
func (s *Selection) CategoryIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.categoryIDs)
}

// Attributes returns a copy of the selected attribute values keyed by
// attribute key, values in toggle order.
func (s *Selection) Attributes() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]string, len(s.attributes))
	for k, v := range s.attributes {
		out[k] = slices.Clone(v)
	}
	return out
}

// IsSelected reports whether value is currently selected under key.
func (s *Selection) IsSelected(key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.attributes[key], value)
}

// Version increments on every mutation. Consumers compare versions to detect
// that any selection field changed.
func (s *Selection) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe registers fn to run after every mutation. Subscribers are invoked
// synchronously, outside the selection lock, in registration order.
func (s *Selection) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// bump must be called with mu held.
func (s *Selection) bump() {
	s.version++
}

func (s *Selection) notify() {
	s.mu.Lock()
	subs := slices.Clone(s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
