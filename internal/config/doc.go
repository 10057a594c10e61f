// Package config loads basket's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/basket/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	api_bind = "127.0.0.1:3333"
//	request_timeout = "5s"
//	catalog_refresh = "30s"
//	log_file = "~/.local/state/basket/basket.log"
//	log_level = "info"
//
// Durations use Go syntax and must be positive. Paths starting with ~ are
// expanded against the user's home directory. Values are trimmed.
//
// # Error Handling
//
// Load returns an error for unreadable files, malformed TOML and invalid
// durations. A missing file is not an error.
package config
