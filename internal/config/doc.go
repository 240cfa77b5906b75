// Package config loads, normalizes, and validates demoreel configuration data.
//
// It supplies repository defaults (including the stock eight-beat timeline and
// its narration file table), expands user paths, reads TOML files, and honours
// DEMOREEL_* environment overrides. Quality thresholds and beat tables are
// plain values on Config; callers hand them to the scorer and synchronizer
// explicitly instead of reaching for package state.
package config
