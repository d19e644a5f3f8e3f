package app

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/craftparts/storefront-go/internal/catalog"
	"github.com/craftparts/storefront-go/internal/client"
	"github.com/craftparts/storefront-go/internal/listing"
)

const usage = "usage: storefront <types|facets|products|cart|quote> [flags]"

// Run wires the application and executes one storefront command.
func Run(ctx context.Context, lg *zap.Logger, cfg *Config, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	a, err := New(ctx, cfg, lg, nil)
	if err != nil {
		return err
	}

	switch cmd := args[0]; cmd {
	case "types":
		return a.runTypes(ctx)
	case "facets":
		return a.runFacets(ctx, args[1:])
	case "products":
		return a.runProducts(ctx, args[1:])
	case "cart":
		return a.runCart(ctx, args[1:])
	case "quote":
		return a.runQuote(ctx, args[1:])
	default:
		return errors.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

// runTypes lists every product type the catalog knows.
func (a *App) runTypes(ctx context.Context) error {
	cats, err := a.Client.ListCategories(ctx)
	if err != nil {
		return errors.Wrap(err, "list categories")
	}
	derived := catalog.DeriveFacets(cats, "")
	for _, pt := range derived.ProductTypes {
		fmt.Fprintln(a.out, pt)
	}
	return nil
}

// runFacets shows the categories and merged filter facets for a product type.
func (a *App) runFacets(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("facets", flag.ContinueOnError)
	typ := fs.String("type", a.cfg.DefaultProductType, "product type to derive facets for")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cats, err := a.Client.ListCategories(ctx)
	if err != nil {
		return errors.Wrap(err, "list categories")
	}
	derived := catalog.DeriveFacets(cats, *typ)

	fmt.Fprintf(a.out, "categories (%s):\n", *typ)
	for _, c := range derived.RelatedCategories {
		fmt.Fprintf(a.out, "  %s\t%s\n", c.ID, c.DisplayName)
	}
	fmt.Fprintln(a.out, "facets:")
	for _, f := range derived.Facets {
		wide := ""
		if f.Wide() {
			wide = " (wide)"
		}
		fmt.Fprintf(a.out, "  %s%s: %s\n", f.DisplayName, wide, strings.Join(f.Values, ", "))
	}
	return nil
}

// runProducts lists one page of products under the current filters.
func (a *App) runProducts(ctx context.Context, args []string) error {
	var (
		categories stringList
		attrs      stringList
	)
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	typ := fs.String("type", "", "product type (defaults to the configured one)")
	page := fs.Int("page", 0, "page number")
	fs.Var(&categories, "category", "category id filter (repeatable)")
	fs.Var(&attrs, "attr", "attribute filter as key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *typ != "" {
		a.ShopFilters.SetProductType(*typ)
	}
	for _, id := range categories {
		a.ShopFilters.ToggleCategoryID(id)
	}
	for _, kv := range attrs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return errors.Errorf("attribute filter %q must be key=value", kv)
		}
		a.ShopFilters.ToggleAttribute(key, value)
	}
	// Page is applied after the filters: every filter change above has
	// already reset the controller to page 1.
	if *page > 0 {
		a.Listing.SetPage(*page)
	}

	products, err := a.Listing.Fetch(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch listing")
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tMOQ")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Price.StringFixed(2), p.MinQuantity)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	pg := a.Listing.Pagination()
	fmt.Fprintf(a.out, "page %d of %d (%d items)\n", pg.Page, pg.TotalPages, pg.Total)
	if bar := formatWindow(a.Listing.Window()); bar != "" {
		fmt.Fprintln(a.out, bar)
	}
	return nil
}

// runCart manages the persisted cart.
func (a *App) runCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: storefront cart <add|rm|set|show|clear> [args]")
	}

	switch sub := args[0]; sub {
	case "add":
		if len(args) != 3 {
			return errors.New("usage: storefront cart add <product-id> <quantity>")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return errors.Wrap(err, "parse quantity")
		}
		p, err := a.Client.GetProduct(ctx, args[1])
		if err != nil {
			return errors.Wrap(err, "fetch product")
		}
		qty, below := NormalizeQuantity(p, qty)
		if below {
			fmt.Fprintf(a.out, "warning: %d is below the minimum order quantity of %d for %s\n", qty, p.MinQuantity, p.Name)
		}
		a.Cart.Add(ctx, p, qty)
	case "rm":
		if len(args) != 2 {
			return errors.New("usage: storefront cart rm <product-id>")
		}
		a.Cart.Remove(ctx, args[1])
	case "set":
		if len(args) != 3 {
			return errors.New("usage: storefront cart set <product-id> <quantity>")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return errors.Wrap(err, "parse quantity")
		}
		a.Cart.SetQuantity(ctx, args[1], qty)
	case "show":
	case "clear":
		a.Cart.Clear(ctx)
	default:
		return errors.Errorf("unknown cart command %q", sub)
	}

	return a.printCart()
}

func (a *App) printCart() error {
	lines := a.Cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, l := range lines {
		sub := l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", l.ProductID, l.Name, l.Price.StringFixed(2), l.Quantity, sub.StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "total: %d items, %s\n", a.Cart.TotalQuantity(), a.Cart.TotalPrice().StringFixed(2))
	return nil
}

// runQuote submits the cart as a quote request and clears it on success.
func (a *App) runQuote(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("quote", flag.ContinueOnError)
	note := fs.String("note", "", "note for the back office")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lines := a.Cart.Lines()
	if len(lines) == 0 {
		return errors.New("cart is empty, nothing to quote")
	}

	in := client.QuoteInput{Note: *note, Items: make([]client.QuoteItemInput, 0, len(lines))}
	for _, l := range lines {
		in.Items = append(in.Items, client.QuoteItemInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	q, err := a.Client.CreateQuote(ctx, in)
	if err != nil {
		return errors.Wrap(err, "create quote")
	}
	a.Cart.Clear(ctx)

	fmt.Fprintf(a.out, "quote %s submitted (%s), %d lines\n", q.ID, q.Status, len(q.Items))
	return nil
}

// formatWindow renders a pagination bar, e.g. "1 .. 4 [5] 6 .. 12".
func formatWindow(refs []listing.PageRef) string {
	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		switch {
		case r.Ellipsis:
			parts = append(parts, "..")
		case r.Current:
			parts = append(parts, "["+strconv.Itoa(r.Page)+"]")
		default:
			parts = append(parts, strconv.Itoa(r.Page))
		}
	}
	return strings.Join(parts, " ")
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
