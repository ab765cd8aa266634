// Package logging assembles structured slog loggers and formatting helpers used
// across cutroom.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so export code can tag every log
// line with the run's export ID. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
package logging
