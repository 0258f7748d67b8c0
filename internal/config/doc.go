// Package config loads, normalizes, and validates ytmp3 configuration.
//
// Settings come from repository defaults, an optional TOML file and a few
// environment overrides (YTMP3_DOWNLOAD_DIR, LOG_LEVEL, YTMP3_LISTEN), in
// that order. Paths are expanded, including tilde shortcuts, so downstream
// code always receives absolute directories.
package config
