// Package app is the composition root for basket.
//
// NewSession wires one cart: the shop API client, the catalog snapshot store,
// the cart store and the stock check orchestrator registered as its effect.
// Both the TUI and the headless CLI commands build their cart this way.
//
// Run loads config and prefs, opens the log file, refreshes the catalog once
// and then runs two goroutines under an errgroup:
//
//   - the catalog poller, which refreshes the product list on the configured
//     interval and backs off exponentially (capped at 30s) while the API is
//     failing
//   - the bubbletea program
//
// Quitting the UI cancels the poller. Cancelling the parent context stops
// both, and outstanding stock checks resolve as failures before Run returns.
//
// Startup errors (config, logging, client) are returned. Refresh and stock
// check failures are logged and surfaced in the UI instead.
package app
