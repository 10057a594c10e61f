package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/basket/internal/cart"
)

// CatalogSnapshot is the latest product list available to the UI.
type CatalogSnapshot struct {
	Products            []cart.Product
	HasProducts         bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// IsOffline returns true when the catalog has been unreachable for multiple refreshes.
func (s CatalogSnapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Lookup finds a product by id.
func (s CatalogSnapshot) Lookup(id cart.ProductID) (cart.Product, bool) {
	i := slices.IndexFunc(s.Products, func(p cart.Product) bool { return p.ID == id })
	if i < 0 {
		return cart.Product{}, false
	}
	return s.Products[i], true
}

// Catalog coordinates concurrent updates to the catalog snapshot.
type Catalog struct {
	mu       sync.RWMutex
	snapshot CatalogSnapshot
}

// Update replaces the product list. When err is non-nil the previous list is
// kept but the error is recorded for visibility.
func (c *Catalog) Update(products []cart.Product, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.snapshot.LastError = err
		c.snapshot.LastUpdated = time.Now()
		c.snapshot.ConsecutiveFailures++
		return
	}

	c.snapshot.Products = slices.Clone(products)
	c.snapshot.HasProducts = true
	c.snapshot.LastError = nil
	c.snapshot.LastUpdated = time.Now()
	c.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current catalog snapshot.
func (c *Catalog) Snapshot() CatalogSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := c.snapshot
	snap.Products = slices.Clone(c.snapshot.Products)
	if c.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", c.snapshot.LastError)
	}
	return snap
}
