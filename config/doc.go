// Package config loads, normalizes, and validates flowlog configuration.
//
// It supplies defaults for every knob, reads TOML files, and canonicalizes
// enum-like tokens (format, color mode, backpressure policy) so downstream
// wiring only ever sees validated values. Obtain settings through Default or
// Load rather than constructing Config literals so new fields pick up their
// defaults.
package config
