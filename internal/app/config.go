package app

import (
	"os"
	"path/filepath"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (STOREFRONT_ prefix) or YAML config files. Command
// line flags belong to the subcommands, so the loader skips them.
type Config struct {
	BaseURL            string `usage:"Storefront API base URL (STOREFRONT_BASE_URL)" flag:"base-url"`
	PageSize           int    `default:"48" usage:"Product listing page size" flag:"page-size"`
	DefaultProductType string `default:"Ribbon" usage:"Product type the shop opens on" flag:"default-product-type"`
	Cart               CartConfig
}

// CartConfig selects and parameterizes the cart persistence backend.
type CartConfig struct {
	Path       string `usage:"Cart snapshot file path (defaults under the user config dir)" flag:"cart-path"`
	SQLitePath string `usage:"SQLite database path; set to use SQLite instead of the snapshot file" flag:"cart-sqlite"`
	Name       string `default:"cart" usage:"Cart name within the SQLite backend" flag:"cart-name"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files and applies defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		SkipFlags: true,
		Files:     []string{"storefront.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyDefaults()

	if cfg.BaseURL == "" {
		return nil, errors.New("API base URL is required: set STOREFRONT_BASE_URL")
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Cart.Path == "" {
		c.Cart.Path = defaultCartPath()
	}
	if c.PageSize <= 0 {
		c.PageSize = 48
	}
}

func defaultCartPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "cart.json"
	}
	return filepath.Join(dir, "storefront", "cart.json")
}
