package cart

import (
	"slices"

	"github.com/shopspring/decimal"
)

// ProductID identifies a catalog product.
type ProductID int64

// Product is a catalog entry. Products are owned by the catalog and copied
// into line items by value.
type Product struct {
	ID    ProductID
	Title string
	Price decimal.Decimal
}

// LineItem is one product row in the cart.
type LineItem struct {
	Product  Product
	Quantity int
}

// Subtotal returns price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// State is an immutable cart snapshot.
type State struct {
	items             []LineItem
	failedStockChecks []ProductID
}

// NewState returns an empty cart.
func NewState() State {
	return State{}
}

// Items returns a copy of the line items in insertion order.
func (s State) Items() []LineItem {
	return slices.Clone(s.items)
}

// Len returns the number of distinct products in the cart.
func (s State) Len() int {
	return len(s.items)
}

// Item returns the line item for id.
func (s State) Item(id ProductID) (LineItem, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return LineItem{}, false
}

// Quantity returns the reserved quantity for id, zero when absent.
func (s State) Quantity(id ProductID) int {
	if i := s.indexOf(id); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// TotalQuantity sums the quantity of every line item.
func (s State) TotalQuantity() int {
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Total sums every line item subtotal.
func (s State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// FailedStockChecks returns the ids whose latest stock check failed, in the
// order the failures were first recorded.
func (s State) FailedStockChecks() []ProductID {
	return slices.Clone(s.failedStockChecks)
}

// StockCheckFailed reports whether the latest stock check for id failed.
func (s State) StockCheckFailed(id ProductID) bool {
	return slices.Contains(s.failedStockChecks, id)
}

func (s State) indexOf(id ProductID) int {
	return slices.IndexFunc(s.items, func(item LineItem) bool {
		return item.Product.ID == id
	})
}
