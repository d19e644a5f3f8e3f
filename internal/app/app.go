package app

import (
	"context"
	"io"
	"net/url"
	"os"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/craftparts/storefront-go/internal/cache"
	"github.com/craftparts/storefront-go/internal/cart"
	"github.com/craftparts/storefront-go/internal/client"
	"github.com/craftparts/storefront-go/internal/filter"
	"github.com/craftparts/storefront-go/internal/listing"
)

// App owns every state container of the storefront: the remote data cache,
// the API client layered on it, the persisted cart, the shop and back-office
// filter selections, and the listing controller. It is the single wiring
// point; nothing below holds global state.
type App struct {
	Cache        *cache.Cache
	Client       *client.Client
	Cart         *cart.Store
	ShopFilters  *filter.Selection
	AdminFilters *filter.Selection
	Listing      *listing.Controller

	cfg *Config
	lg  *zap.Logger
	out io.Writer
}

// New wires the application from config. initial seeds the listing page the
// way a URL query string would on mount.
func New(ctx context.Context, cfg *Config, lg *zap.Logger, initial url.Values) (*App, error) {
	storage, err := newCartStorage(cfg.Cart)
	if err != nil {
		return nil, errors.Wrap(err, "open cart storage")
	}

	store := cache.New(lg)
	api, err := client.New(cfg.BaseURL, store, lg)
	if err != nil {
		return nil, errors.Wrap(err, "create api client")
	}

	shop := filter.NewSelection(cfg.DefaultProductType)

	return &App{
		Cache:        store,
		Client:       api,
		Cart:         cart.NewStore(ctx, storage, lg),
		ShopFilters:  shop,
		AdminFilters: filter.NewSelection(""),
		Listing:      listing.NewController(api, shop, cfg.PageSize, initial, lg),
		cfg:          cfg,
		lg:           lg,
		out:          os.Stdout,
	}, nil
}

func newCartStorage(cfg CartConfig) (cart.Storage, error) {
	if cfg.SQLitePath != "" {
		return cart.NewSQLiteStorage(cfg.SQLitePath, cfg.Name)
	}
	return cart.NewFileStorage(cfg.Path), nil
}
