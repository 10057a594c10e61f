// Package state holds the two pieces of shared state in basket: the cart
// Store and the Catalog snapshot.
//
// # Store
//
// Store is the single owner of the current cart.State. Callers change it only
// by dispatching cart actions:
//
//	store := state.New(state.WithEffects(orchestrator))
//	unsubscribe := store.Subscribe(func(st cart.State) { render(st) })
//	defer unsubscribe()
//	store.Dispatch(cart.AddToCartRequested{Product: p})
//
// Each dispatched action goes through the same three steps, in order:
//
//  1. cart.Reduce produces the next state, which replaces the stored one
//  2. subscribers are called with the new snapshot
//  3. effects receive the action together with that snapshot
//
// Actions are queued on a FIFO and drained by whichever goroutine found the
// store idle. A dispatch made while a drain is running (from a subscriber,
// from an effect, or from another goroutine) is appended to the queue and
// applied by the running drainer. The result is a single timeline: no two
// transitions interleave and every subscriber sees the states in the order
// they were produced.
//
// DispatchIf attaches a Guard to an action. The guard runs on the dispatch
// timeline immediately before the transition, which lets an effect make a
// "still current?" decision atomically with respect to every other action.
// The stockcheck package uses this to drop superseded stock check results.
//
// # Catalog
//
// Catalog is a snapshot container written by the catalog poller and read by
// the UI:
//
//	// Success case: replace the product list
//	catalog.Update(products, nil)
//
//	// Error case: keep the old list, record the error
//	catalog.Update(nil, err)
//
// Snapshot returns defensive copies, so the UI may hold on to a snapshot
// while the poller keeps writing. IsOffline reports two or more consecutive
// refresh failures.
package state
