// Package stockcheck confirms stock with the shop API before an item is added
// to the cart.
//
// The Orchestrator is registered as a state.Effect. For every
// cart.AddToCartRequested it:
//
//  1. reads the quantity already in the cart from the snapshot the store
//     produced for that request
//  2. asks the StockService how many units exist
//  3. dispatches AddToCartSucceeded when available > reserved, otherwise
//     AddToCartFailed; a transport error is a failure too
//
// # Supersession
//
// Each check gets a uuid. The newest id per product is remembered, and the
// result is dispatched with a guard that compares ids on the store's dispatch
// timeline. A second request for the same product therefore retires the
// first: when the first check completes, late or early, its result is
// dropped. Checks for different products run and resolve independently.
//
// The remote call of a superseded check is not aborted; only its result is
// ignored.
package stockcheck
