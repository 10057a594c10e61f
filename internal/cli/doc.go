// Package cli implements the basket command line.
//
//	basket                 run the terminal UI
//	basket products        print the catalog
//	basket add ID...       request products headless and print the cart
//
// The headless commands share the session wiring with the UI (see
// app.NewSession) and log to stderr at warn level, or debug with -v.
package cli
