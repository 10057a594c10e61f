package cart

import "slices"

// Reduce returns the cart that results from applying a to s. It never
// modifies s. Unknown actions, and AddToCartRequested, return s as is.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case AddToCartSucceeded:
		return addItem(s, act.Product)
	case AddToCartFailed:
		return markFailed(s, act.ProductID)
	default:
		return s
	}
}

func addItem(s State, product Product) State {
	next := State{failedStockChecks: s.failedStockChecks}

	if i := s.indexOf(product.ID); i >= 0 {
		next.items = slices.Clone(s.items)
		next.items[i].Quantity++
	} else {
		next.items = make([]LineItem, len(s.items), len(s.items)+1)
		copy(next.items, s.items)
		next.items = append(next.items, LineItem{Product: product, Quantity: 1})
	}

	if s.StockCheckFailed(product.ID) {
		next.failedStockChecks = slices.DeleteFunc(slices.Clone(s.failedStockChecks), func(id ProductID) bool {
			return id == product.ID
		})
		if len(next.failedStockChecks) == 0 {
			next.failedStockChecks = nil
		}
	}
	return next
}

func markFailed(s State, id ProductID) State {
	if s.StockCheckFailed(id) {
		return s
	}
	failed := make([]ProductID, len(s.failedStockChecks), len(s.failedStockChecks)+1)
	copy(failed, s.failedStockChecks)
	return State{
		items:             s.items,
		failedStockChecks: append(failed, id),
	}
}
