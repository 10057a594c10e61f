// Package cart defines the shopping cart state, the actions that change it,
// and the pure transition function that applies them.
//
// # Overview
//
// A cart is a value. Reduce takes the current State and an Action and returns
// the next State without touching the input:
//
//	next := cart.Reduce(prev, cart.AddToCartSucceeded{Product: p})
//	// prev is still valid and unchanged
//
// Nothing in this package performs I/O or keeps global state. Ordering,
// subscribers and asynchronous stock checks live in the state and stockcheck
// packages.
//
// # Actions
//
// Three actions make up the vocabulary:
//
//   - AddToCartRequested: the user asked to add a product. Reduce ignores it;
//     it only exists to trigger a stock check.
//   - AddToCartSucceeded: stock was confirmed. The product is appended with
//     quantity 1, or its existing line item is incremented in place.
//   - AddToCartFailed: stock was insufficient or could not be verified. The
//     product id is recorded in the failed stock check set.
//
// Any other Action implementation is returned unchanged by Reduce.
//
// # Invariants
//
//   - Items never holds two line items for the same product id.
//   - Quantity is always >= 1.
//   - Items keep insertion order; incrementing does not move an item.
//   - A success for a product clears its failed stock check.
//
// # Immutability
//
// State keeps its slices unexported. Accessors hand out copies and Reduce
// allocates fresh slices whenever it changes something, so a State obtained
// from a store can be read from any goroutine without locking.
package cart
