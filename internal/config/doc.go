// Package config loads, normalizes, and validates the TOML configuration
// file shared by every Past Forward component.
package config
