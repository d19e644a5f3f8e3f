// Package cart implements the locally persisted shopping cart: an
// insertion-ordered set of product lines with cached totals, written back to
// durable storage after every mutation.
package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/craftparts/storefront-go/internal/catalog"
)

// Line is a single cart entry. Quantity is always >= 1; a line that would
// drop to zero is removed instead.
type Line struct {
	ProductID     string
	Name          string
	Price         decimal.Decimal
	Image         string
	MinQuantity   int
	Specification string
	Quantity      int
}

// LineFromProduct builds a cart line from a catalog product and a requested
// quantity. A MinQuantity of zero is normalized to 1.
func LineFromProduct(p catalog.Product, quantity int) Line {
	moq := p.MinQuantity
	if moq <= 0 {
		moq = 1
	}
	return Line{
		ProductID:     p.ID,
		Name:          p.Name,
		Price:         p.Price,
		Image:         p.Image,
		MinQuantity:   moq,
		Specification: p.Specification,
		Quantity:      quantity,
	}
}

// Store holds cart state and persists the full snapshot synchronously after
// every mutation. Invalid input never errors: it is a silent no-op, matching
// the behaviour callers depend on. Persistence failures are logged and the
// in-memory state stays authoritative.
//
// MOQ enforcement deliberately does not live here; the store is mechanism,
// quantity policy belongs to the caller.
type Store struct {
	storage Storage
	lg      *zap.Logger

	mu            sync.Mutex
	lines         []Line
	totalQuantity int
	totalPrice    decimal.Decimal
}

// NewStore creates a Store hydrated from storage. A missing or malformed
// snapshot yields an empty cart, never an error.
func NewStore(ctx context.Context, storage Storage, lg *zap.Logger) *Store {
	s := &Store{
		storage:    storage,
		lg:         lg.Named("cart"),
		totalPrice: decimal.Zero,
	}

	snap, err := storage.Load(ctx)
	switch {
	case err == nil:
		s.lines = snap.Items
		s.recompute()
	case errors.Is(err, ErrNoSnapshot):
		// First run, nothing persisted yet.
	default:
		s.lg.Warn("Discarding unreadable cart snapshot", zap.Error(err))
	}
	return s
}

// Add inserts a new line or, when the product is already present, adds the
// quantity to the existing line without touching its display fields.
// No-op when quantity <= 0 or the product has no ID.
func (s *Store) Add(ctx context.Context, p catalog.Product, quantity int) {
	if quantity <= 0 || p.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ln := s.find(p.ID); ln != nil {
		ln.Quantity += quantity
	} else {
		s.lines = append(s.lines, LineFromProduct(p, quantity))
	}
	s.recompute()
	s.persist(ctx)
}

// Remove deletes the line for productID. No-op when absent.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	s.recompute()
	s.persist(ctx)
}

// SetQuantity replaces a line's quantity. No-op when the line is absent or
// the new quantity is not positive.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ln := s.find(productID)
	if ln == nil {
		return
	}
	ln.Quantity = quantity
	s.recompute()
	s.persist(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.recompute()
	s.persist(ctx)
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalQuantity returns the sum of all line quantities.
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalQuantity
}

// TotalPrice returns the sum of price times quantity over all lines.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPrice
}

// Snapshot returns the full persistable cart state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	items := make([]Line, len(s.lines))
	copy(items, s.lines)
	return Snapshot{
		Items:         items,
		TotalQuantity: s.totalQuantity,
		TotalPrice:    s.totalPrice,
	}
}

func (s *Store) find(productID string) *Line {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return &s.lines[i]
		}
	}
	return nil
}

// recompute re-derives both totals from the lines. Full recomputation keeps
// the totals-equal-sum invariant immune to drift; cart sizes are small enough
// that the O(n) cost is irrelevant. Must be called with mu held.
func (s *Store) recompute() {
	qty := 0
	price := decimal.Zero
	for i := range s.lines {
		qty += s.lines[i].Quantity
		price = price.Add(s.lines[i].Price.Mul(decimal.NewFromInt(int64(s.lines[i].Quantity))))
	}
	s.totalQuantity = qty
	s.totalPrice = price
}

// persist writes the current snapshot. Must be called with mu held.
func (s *Store) persist(ctx context.Context) {
	if err := s.storage.Save(ctx, s.snapshotLocked()); err != nil {
		s.lg.Error("Persist cart snapshot", zap.Error(err))
	}
}
