package cart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Items: []Line{
			{
				ProductID:     "p1",
				Name:          "Satin Ribbon 25mm",
				Price:         decimal.RequireFromString("12.50"),
				Image:         "/images/p1.jpg",
				MinQuantity:   5,
				Specification: "25mm, double-faced",
				Quantity:      10,
			},
			{
				ProductID:   "p2",
				Name:        "Woven Label",
				Price:       decimal.RequireFromString("0.35"),
				MinQuantity: 1,
				Quantity:    100,
			},
		},
		TotalQuantity: 110,
		TotalPrice:    decimal.RequireFromString("160.00"),
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	want := sampleSnapshot()

	got, err := DecodeSnapshot(EncodeSnapshot(want))

	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, want.TotalQuantity, got.TotalQuantity)
	assert.True(t, want.TotalPrice.Equal(got.TotalPrice))
	for i := range want.Items {
		assert.Equal(t, want.Items[i].ProductID, got.Items[i].ProductID)
		assert.Equal(t, want.Items[i].Name, got.Items[i].Name)
		assert.True(t, want.Items[i].Price.Equal(got.Items[i].Price))
		assert.Equal(t, want.Items[i].Quantity, got.Items[i].Quantity)
		assert.Equal(t, want.Items[i].MinQuantity, got.Items[i].MinQuantity)
	}
}

func TestSnapshot_EncodesPricesAsNumbers(t *testing.T) {
	data := EncodeSnapshot(sampleSnapshot())

	assert.Contains(t, string(data), `"totalPrice":160`)
	assert.Contains(t, string(data), `"price":12.5`)
	assert.NotContains(t, string(data), `"12.5"`)
}

func TestSnapshot_SkipsUnknownFields(t *testing.T) {
	data := []byte(`{"cartItems":[],"totalQuantity":0,"totalPrice":0,"schemaVersion":2}`)

	snap, err := DecodeSnapshot(data)

	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestSnapshot_DecodeMalformed(t *testing.T) {
	for _, data := range []string{
		`{"cartItems":`,
		`[]`,
		`{"totalQuantity":"three"}`,
		``,
	} {
		_, err := DecodeSnapshot([]byte(data))
		assert.Error(t, err, "input %q", data)
	}
}

func TestFileStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "cart.json")
	fs := NewFileStorage(path)

	require.NoError(t, fs.Save(ctx, sampleSnapshot()))

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 110, got.TotalQuantity)
	assert.Len(t, got.Items, 2)
}

func TestFileStorage_MissingFile(t *testing.T) {
	fs := NewFileStorage(filepath.Join(t.TempDir(), "cart.json"))

	_, err := fs.Load(context.Background())

	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStorage(path).Load(context.Background())

	assert.Error(t, err)
}

func TestSQLiteStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storefront.db")

	st, err := NewSQLiteStorage(path, "default")
	require.NoError(t, err)

	_, err = st.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, st.Save(ctx, sampleSnapshot()))
	// Second save must overwrite, not duplicate.
	require.NoError(t, st.Save(ctx, sampleSnapshot()))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 110, got.TotalQuantity)

	// A differently named cart in the same database is independent.
	other, err := NewSQLiteStorage(path, "wishlist")
	require.NoError(t, err)
	_, err = other.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
