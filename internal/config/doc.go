// Package config loads, normalizes, and validates wardwatch configuration.
//
// Configuration lives in a TOML file (~/.config/wardwatch/config.toml by
// default, or wardwatch.toml in the working directory). Load applies
// defaults for anything the file omits, expands paths, and rejects
// unusable values before the rest of the system sees them.
package config
