// Package config loads, normalizes, and validates albumconv configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from an explicit path,
// ~/.config/albumconv/config.toml, or ./albumconv.toml. The Config type
// centralizes the external tool names, encoder quality, worker count, input
// filtering, and logging settings the CLI needs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
