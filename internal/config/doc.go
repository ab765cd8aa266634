// Package config loads, normalizes, and validates cutroom configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and export pipeline need: the workspace and export directories that new
// projects start with, the ffmpeg/ffprobe binaries, the final mux codecs, and
// the probe fallback duration.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
