// Package listing drives the paginated product listing: it owns the current
// page number, resets it when the filter selection changes, mirrors it into
// the URL, and composes listing queries for the API client.
package listing

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/craftparts/storefront-go/internal/catalog"
	"github.com/craftparts/storefront-go/internal/client"
	"github.com/craftparts/storefront-go/internal/filter"
)

// Lister is the slice of the API client the controller needs.
type Lister interface {
	ListProducts(ctx context.Context, q client.ProductQuery) (catalog.ProductPage, error)
}

// Navigator mirrors the current page into the address bar or an equivalent.
// Implementations replace the current entry rather than pushing history.
type Navigator interface {
	SetPage(page int)
}

// Controller is the paginated listing state machine. Page changes come from
// two signals: any filter-selection change (resets to page 1) and explicit
// SetPage calls from the view. Both sync the page into the Navigator and
// request a scroll to top.
type Controller struct {
	lister    Lister
	sel       *filter.Selection
	pageSize  int
	nav       Navigator
	scrollTop func()
	lg        *zap.Logger

	mu      sync.Mutex
	page    int
	loading bool
	err     error
	last    catalog.Pagination
}

// Option configures a Controller.
type Option func(*Controller)

// WithNavigator attaches a Navigator that receives every page change.
func WithNavigator(nav Navigator) Option {
	return func(c *Controller) { c.nav = nav }
}

// WithScrollToTop attaches a hook invoked after every page change.
func WithScrollToTop(fn func()) Option {
	return func(c *Controller) { c.scrollTop = fn }
}

// NewController creates a Controller over the given selection. The initial
// page is seeded from the "page" query parameter in initial; the controller
// subscribes to sel and resets to page 1 on any selection change.
func NewController(lister Lister, sel *filter.Selection, pageSize int, initial url.Values, lg *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		lister:   lister,
		sel:      sel,
		pageSize: pageSize,
		lg:       lg.Named("listing"),
		page:     PageFromQuery(initial),
	}
	for _, opt := range opts {
		opt(c)
	}
	sel.Subscribe(c.onFilterChange)
	return c
}

// PageFromQuery reads the "page" query parameter, defaulting to 1 when it is
// absent, malformed, or non-positive.
func PageFromQuery(values url.Values) int {
	p, err := strconv.Atoi(values.Get("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

func (c *Controller) onFilterChange() {
	c.mu.Lock()
	c.page = 1
	c.mu.Unlock()
	c.pageChanged(1)
}

// SetPage moves to page p. Any positive integer is accepted; clamping to the
// known page count is the view's concern, an out-of-range request simply
// yields an empty page from the API. Non-positive pages are ignored.
func (c *Controller) SetPage(p int) {
	if p < 1 {
		return
	}
	c.mu.Lock()
	c.page = p
	c.mu.Unlock()
	c.pageChanged(p)
}

// pageChanged runs the post-change hooks outside the lock: Navigator
// implementations may call back into the controller.
func (c *Controller) pageChanged(p int) {
	if c.nav != nil {
		c.nav.SetPage(p)
	}
	if c.scrollTop != nil {
		c.scrollTop()
	}
}

// Fetch requests the current page with the current filter selection. On
// failure the error is surfaced via Err and returned; the page number is not
// rolled back and nothing is retried.
func (c *Controller) Fetch(ctx context.Context) ([]catalog.Product, error) {
	c.mu.Lock()
	q := client.ProductQuery{
		ProductType: c.sel.ProductType(),
		CategoryIDs: c.sel.CategoryIDs(),
		Attributes:  c.sel.Attributes(),
		Page:        c.page,
		Limit:       c.pageSize,
	}
	c.loading = true
	c.mu.Unlock()

	page, err := c.lister.ListProducts(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = err
		c.lg.Warn("Listing fetch failed", zap.Int("page", q.Page), zap.Error(err))
		return nil, err
	}
	c.err = nil
	c.last = page.Pagination
	return page.Data, nil
}

// Page returns the current page number.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Loading reports whether a fetch is in progress.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the error of the last fetch, or nil after a success.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Pagination returns the pagination block of the last successful fetch.
func (c *Controller) Pagination() catalog.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Window returns the pagination bar for the current state.
func (c *Controller) Window() []PageRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Window(c.page, c.last.TotalPages)
}
