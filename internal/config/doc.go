// Package config loads, normalizes, and validates subtitler configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as HF_TOKEN. Command-line
// flags override individual fields after Load returns.
package config
