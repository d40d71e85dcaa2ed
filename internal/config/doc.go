// Package config loads, normalizes, and validates the TOML configuration
// for the minutes daemon and CLI.
package config
