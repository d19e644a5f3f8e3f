package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/craftparts/storefront-go/internal/cart"
	"github.com/craftparts/storefront-go/internal/catalog"
)

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		name      string
		moq, qty  int
		want      int
		wantBelow bool
	}{
		{"above moq", 5, 10, 10, false},
		{"exactly moq", 5, 5, 5, false},
		{"below moq", 5, 2, 2, true},
		{"zero becomes one", 1, 0, 1, false},
		{"negative becomes one below moq", 5, -3, 1, true},
		{"missing moq treated as one", 0, 1, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := catalog.Product{ID: "p1", MinQuantity: tt.moq}
			qty, below := NormalizeQuantity(p, tt.qty)
			assert.Equal(t, tt.want, qty)
			assert.Equal(t, tt.wantBelow, below)
		})
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{PageSize: -1}
	cfg.applyDefaults()
	assert.Equal(t, 48, cfg.PageSize)
	assert.NotEmpty(t, cfg.Cart.Path)

	cfg = Config{PageSize: 12, Cart: CartConfig{Path: "/tmp/mycart.json"}}
	cfg.applyDefaults()
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, "/tmp/mycart.json", cfg.Cart.Path)
}

func TestNewCartStorage_BackendSelection(t *testing.T) {
	st, err := newCartStorage(CartConfig{Path: filepath.Join(t.TempDir(), "cart.json")})
	require.NoError(t, err)
	assert.IsType(t, &cart.FileStorage{}, st)

	st, err = newCartStorage(CartConfig{SQLitePath: filepath.Join(t.TempDir(), "cart.db"), Name: "cart"})
	require.NoError(t, err)
	assert.IsType(t, &cart.SQLiteStorage{}, st)
}

func testConfig(t *testing.T, baseURL string) *Config {
	t.Helper()
	return &Config{
		BaseURL:            baseURL,
		PageSize:           48,
		DefaultProductType: "Ribbon",
		Cart:               CartConfig{Path: filepath.Join(t.TempDir(), "cart.json")},
	}
}

func newTestApp(t *testing.T, handler http.Handler) (*App, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := New(context.Background(), testConfig(t, srv.URL), zap.NewNop(), nil)
	require.NoError(t, err)

	var out bytes.Buffer
	a.out = &out
	return a, &out
}

func TestRunProducts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Ribbon", r.URL.Query().Get("productType"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{
			"data": [{"_id":"p1","name":"Satin Ribbon","productType":"Ribbon","price":12.5,"moq":10}],
			"pagination": {"page":2,"limit":48,"total":96,"totalPages":2}
		}`))
	})
	a, out := newTestApp(t, mux)

	require.NoError(t, a.runProducts(context.Background(), []string{"-page", "2"}))
	assert.Contains(t, out.String(), "Satin Ribbon")
	assert.Contains(t, out.String(), "page 2 of 2 (96 items)")
	assert.Contains(t, out.String(), "1 [2]")
}

func TestRunFacets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"_id":"cat-a","productType":"Ribbon","displayName":"Satin","filters":[
				{"Key":"color","displayName":"Color","values":["Red","Blue"],"order":1}
			]}
		]`))
	})
	a, out := newTestApp(t, mux)

	require.NoError(t, a.runFacets(context.Background(), nil))
	assert.Contains(t, out.String(), "Satin")
	assert.Contains(t, out.String(), "Color: Red, Blue")
}

func TestRunCartAddThenQuote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/p1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"p1","name":"Satin Ribbon","price":12.5,"moq":10}`))
	})
	mux.HandleFunc("POST /api/quotes", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"q1","status":"requested","items":[{"product":"p1","quantity":10,"price":0}]}`))
	})
	a, out := newTestApp(t, mux)
	ctx := context.Background()

	require.NoError(t, a.runCart(ctx, []string{"add", "p1", "10"}))
	assert.Contains(t, out.String(), "total: 10 items, 125.00")

	out.Reset()
	require.NoError(t, a.runQuote(ctx, nil))
	assert.Contains(t, out.String(), "quote q1 submitted (requested), 1 lines")
	assert.Empty(t, a.Cart.Lines(), "cart clears after a successful quote")
}

func TestRunCartAddWarnsBelowMOQ(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/p1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"p1","name":"Satin Ribbon","price":12.5,"moq":10}`))
	})
	a, out := newTestApp(t, mux)

	require.NoError(t, a.runCart(context.Background(), []string{"add", "p1", "2"}))
	assert.Contains(t, out.String(), "below the minimum order quantity")
	require.Len(t, a.Cart.Lines(), 1)
	assert.Equal(t, 2, a.Cart.Lines()[0].Quantity, "policy warns, the store still accepts")
}

func TestRunQuote_EmptyCart(t *testing.T) {
	a, _ := newTestApp(t, http.NewServeMux())
	require.Error(t, a.runQuote(context.Background(), nil))
}
