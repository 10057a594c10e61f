// Package ui is basket's Bubble Tea terminal interface.
//
// The screen has a catalog pane and a cart pane, side by side on wide
// terminals and stacked below LayoutCompactWidth, plus an optional log pane
// fed from the zap JSON log file.
//
// The UI never mutates cart state itself. Adding a product dispatches
// cart.AddToCartRequested on a tea.Cmd goroutine; the stock check
// orchestrator decides the outcome. Store notifications are coalesced into a
// one-slot channel that a waiting command turns into a cartMsg, so a burst of
// transitions causes one redraw with the latest state and the store's
// dispatch loop never blocks on the event loop.
//
// Each catalog row carries at most one badge: "checking" while a check for
// that product is outstanding, then "out of stock" when the latest check
// failed, otherwise "in cart ×N". The catalog snapshot is re-read on every
// tick.
//
// Themes (Nightfox, Kanagawa, Slate) cycle with T. The theme and log pane
// visibility are saved to prefs.toml.
package ui
