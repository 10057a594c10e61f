package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/basket/internal/cart"
	"github.com/five82/basket/internal/stockd"
)

func startShop(t *testing.T) string {
	t.Helper()

	inv, err := stockd.NewInventory([]stockd.Product{
		{ID: 1, Title: "Shirt", Price: decimal.RequireFromString("179.90"), Stock: 2},
		{ID: 2, Title: "Shoes", Price: decimal.RequireFromString("42.50"), Stock: 0},
		{ID: 3, Title: "Slow socks", Price: decimal.RequireFromString("9.99"), Stock: 5, Latency: 200 * time.Millisecond},
	})
	require.NoError(t, err)

	server := httptest.NewServer(stockd.NewServer(inv, nil))
	t.Cleanup(server.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)

	cfgPath := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("api_bind = %q\nrequest_timeout = \"2s\"\n", server.URL)), 0o600))
	return cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProductsCommand(t *testing.T) {
	cfgPath := startShop(t)

	out, err := execute(t, "--config", cfgPath, "products")
	require.NoError(t, err)
	for _, want := range []string{"ID", "Product", "Price", "Shirt", "179.90", "Shoes", "42.50", "Slow socks"} {
		assert.Contains(t, out, want)
	}
}

func TestAddCommand_SequentialStopsAtStock(t *testing.T) {
	cfgPath := startShop(t)

	out, err := execute(t, "--config", cfgPath, "add", "--sequential", "1", "1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Shirt")
	assert.Contains(t, out, "Total 359.80 (2 items)")
	assert.Contains(t, out, "Out of stock: Shirt")
}

func TestAddCommand_NoStock(t *testing.T) {
	cfgPath := startShop(t)

	out, err := execute(t, "--config", cfgPath, "add", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Cart is empty.")
	assert.Contains(t, out, "Out of stock: Shoes")
}

func TestAddCommand_RepeatedRequestSupersedesEarlierOne(t *testing.T) {
	cfgPath := startShop(t)

	out, err := execute(t, "--config", cfgPath, "add", "3", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Slow socks")
	assert.Contains(t, out, "Total 9.99 (1 items)")
	assert.NotContains(t, out, "Out of stock")
}

func TestAddCommand_Errors(t *testing.T) {
	cfgPath := startShop(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no ids", []string{"add"}, "requires at least 1 arg"},
		{"bad id", []string{"add", "shirt"}, `invalid product id "shirt"`},
		{"unknown id", []string{"add", "42"}, "product 42 is not in the catalog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"--config", cfgPath}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProductsCommand_APIDown(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	server := httptest.NewServer(nil)
	url := server.URL
	server.Close()

	cfgPath := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("api_bind = %q\nrequest_timeout = \"1s\"\n", url)), 0o600))

	_, err := execute(t, "--config", cfgPath, "products")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list products")
}

func TestParseProductIDs(t *testing.T) {
	ids, err := parseProductIDs([]string{"1", " 2 ", "30"})
	require.NoError(t, err)
	assert.Equal(t, []cart.ProductID{1, 2, 30}, ids)

	_, err = parseProductIDs([]string{"1", "x"})
	assert.Error(t, err)
}
