// Package config loads, normalizes, and validates wty configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI needs and derives the release directory layout (dict, kaikki, index,
// stage) from the configured data root, so path construction happens in one
// place instead of being scattered across components.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
