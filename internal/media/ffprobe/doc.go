// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Prober: duration probing collaborator used by the media catalog
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
package ffprobe
