package stockd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

// ErrUnknownProduct is returned for ids missing from the inventory.
var ErrUnknownProduct = errors.New("unknown product")

// Product is one inventory row.
type Product struct {
	ID      int64
	Title   string
	Price   decimal.Decimal
	Stock   int
	Latency time.Duration // delay before answering a stock query
}

// Inventory is the mutable product table served by the dev server.
type Inventory struct {
	mu       sync.RWMutex
	products []Product
}

// NewInventory builds an inventory. Ids must be unique and stock non-negative.
func NewInventory(products []Product) (*Inventory, error) {
	seen := make(map[int64]bool, len(products))
	for _, p := range products {
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		if p.Stock < 0 {
			return nil, fmt.Errorf("product %d: stock must not be negative", p.ID)
		}
		seen[p.ID] = true
	}
	return &Inventory{products: slices.Clone(products)}, nil
}

// DefaultInventory is the demo catalog used when no seed file is given.
func DefaultInventory() *Inventory {
	inv, _ := NewInventory([]Product{
		{ID: 1, Title: "Comfortable running shoes", Price: decimal.RequireFromString("179.90"), Stock: 3},
		{ID: 2, Title: "Sneakers with extra padding", Price: decimal.RequireFromString("139.90"), Stock: 5},
		{ID: 3, Title: "Sandals", Price: decimal.RequireFromString("99.90"), Stock: 0},
		{ID: 4, Title: "Trail shoes", Price: decimal.RequireFromString("229.00"), Stock: 1, Latency: 1500 * time.Millisecond},
	})
	return inv
}

// Products returns a copy of every product in id order of insertion.
func (inv *Inventory) Products() []Product {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return slices.Clone(inv.products)
}

// Lookup returns the product for id.
func (inv *Inventory) Lookup(id int64) (Product, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	if i := inv.indexOf(id); i >= 0 {
		return inv.products[i], nil
	}
	return Product{}, fmt.Errorf("product %d: %w", id, ErrUnknownProduct)
}

// SetStock replaces the stock level for id.
func (inv *Inventory) SetStock(id int64, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("product %d: stock must not be negative", id)
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	i := inv.indexOf(id)
	if i < 0 {
		return fmt.Errorf("product %d: %w", id, ErrUnknownProduct)
	}
	inv.products[i].Stock = quantity
	return nil
}

func (inv *Inventory) indexOf(id int64) int {
	return slices.IndexFunc(inv.products, func(p Product) bool { return p.ID == id })
}

type seedFile struct {
	Products []seedProduct `toml:"products"`
}

type seedProduct struct {
	ID      int64  `toml:"id"`
	Title   string `toml:"title"`
	Price   string `toml:"price"`
	Stock   int    `toml:"stock"`
	Latency string `toml:"latency"`
}

// LoadSeed reads an inventory from a TOML seed file. Prices are decimal
// strings and latency is a Go duration.
func LoadSeed(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	var seed seedFile
	if err := toml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	products := make([]Product, 0, len(seed.Products))
	for _, sp := range seed.Products {
		price, err := decimal.NewFromString(strings.TrimSpace(sp.Price))
		if err != nil {
			return nil, fmt.Errorf("parse seed: product %d price %q: %w", sp.ID, sp.Price, err)
		}
		var latency time.Duration
		if raw := strings.TrimSpace(sp.Latency); raw != "" {
			latency, err = time.ParseDuration(raw)
			if err != nil {
				return nil, fmt.Errorf("parse seed: product %d latency %q: %w", sp.ID, sp.Latency, err)
			}
		}
		products = append(products, Product{
			ID:      sp.ID,
			Title:   strings.TrimSpace(sp.Title),
			Price:   price,
			Stock:   sp.Stock,
			Latency: latency,
		})
	}

	inv, err := NewInventory(products)
	if err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return inv, nil
}
