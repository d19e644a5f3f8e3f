package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/craftparts/storefront-go/internal/cache"
	"github.com/craftparts/storefront-go/internal/catalog"
	"github.com/craftparts/storefront-go/internal/client"
)

func main() {
	var (
		baseURL     string
		outPath     string
		productType string
		pageSize    int
		concurrency int
	)

	flag.StringVar(&baseURL, "base-url", "", "storefront API base URL (or STOREFRONT_BASE_URL env)")
	flag.StringVar(&outPath, "out", "catalog.jsonl.gz", "output file (gzip-compressed JSON lines)")
	flag.StringVar(&productType, "type", "", "restrict the export to one product type")
	flag.IntVar(&pageSize, "page-size", 200, "products per request")
	flag.IntVar(&concurrency, "concurrency", 4, "concurrent page fetches")
	flag.Parse()

	if baseURL == "" {
		baseURL = os.Getenv("STOREFRONT_BASE_URL")
	}
	if baseURL == "" {
		slog.Error("base URL is required: set --base-url or STOREFRONT_BASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, baseURL, outPath, productType, pageSize, concurrency); err != nil {
		slog.Error("catalog export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog export completed successfully")
}

func run(ctx context.Context, baseURL, outPath, productType string, pageSize, concurrency int) error {
	api, err := client.New(baseURL, cache.New(zap.NewNop()), zap.NewNop())
	if err != nil {
		return errors.Wrap(err, "create api client")
	}

	// First page tells us how many there are.
	first, err := api.ListProductsAdmin(ctx, query(productType, 1, pageSize))
	if err != nil {
		return errors.Wrap(err, "fetch first page")
	}

	totalPages := first.Pagination.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	slog.Info("export plan",
		slog.Int("total_products", first.Pagination.Total),
		slog.Int("pages", totalPages),
		slog.Int("page_size", pageSize),
	)

	pages := make([][]catalog.Product, totalPages)
	pages[0] = first.Data

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for p := 2; p <= totalPages; p++ {
		g.Go(fetchPage(gctx, api, query(productType, p, pageSize), pages))
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "fetch pages")
	}

	count, err := writeExport(outPath, pages)
	if err != nil {
		return errors.Wrap(err, "write export")
	}

	slog.Info("export written", slog.String("path", outPath), slog.Int("products", count))
	return nil
}

func query(productType string, page, pageSize int) client.ProductQuery {
	return client.ProductQuery{ProductType: productType, Page: page, Limit: pageSize}
}

func fetchPage(ctx context.Context, api *client.Client, q client.ProductQuery, pages [][]catalog.Product) func() error {
	return func() error {
		res, err := api.ListProductsAdmin(ctx, q)
		if err != nil {
			return errors.Wrapf(err, "fetch page %d", q.Page)
		}
		slog.Info("page fetched", slog.Int("page", q.Page), slog.Int("products", len(res.Data)))
		pages[q.Page-1] = res.Data
		return nil
	}
}

// writeExport streams all products as one JSON object per line into a
// gzip-compressed file, in page order.
func writeExport(path string, pages [][]catalog.Product) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrapf(err, "create %s", path)
	}
	defer func() { _ = f.Close() }()

	gz := pgzip.NewWriter(f)
	enc := json.NewEncoder(gz)

	count := 0
	for _, page := range pages {
		for _, p := range page {
			if err := enc.Encode(p); err != nil {
				return count, errors.Wrapf(err, "encode product %s", p.ID)
			}
			count++
		}
	}

	if err := gz.Close(); err != nil {
		return count, errors.Wrap(err, "flush gzip stream")
	}
	return count, f.Close()
}
