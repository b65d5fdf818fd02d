// Package config loads snapback's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/snapback/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// A file that exists but cannot be parsed is an error; so is any value that
// is present but invalid.
//
// # TOML Format
//
//	base_url = "127.0.0.1:4000"         # host:port or full URL
//	request_timeout = "30s"             # empty: transport default
//	min_request_interval = "0s"         # spacing between requests
//	list_policy = "clear"               # clear | keep
//	log_file = "~/.local/state/snapback/snapback.log"
//	log_level = "info"                  # debug | info | warn | error
//
// # Default Values
//
//   - Config file: ~/.config/snapback/config.toml
//   - Archive address: 127.0.0.1:4000
//   - Log file: ~/.local/state/snapback/snapback.log (log_file = "" disables)
//   - List policy: clear
//
// # Path Expansion
//
// ExpandPath replaces a leading ~ with the user's home directory and
// returns an absolute path.
//
// # Non-goals
//
// Credentials are never read from or written to configuration. The bearer
// token lives only in memory.
package config
