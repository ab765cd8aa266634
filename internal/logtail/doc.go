// Package logtail reads the cutroom log file for the `cutroom logs` command.
//
// Tail returns the last N lines with the offset just past them; Follow polls
// from an offset and emits each new line until the context is cancelled.
// A Filter narrows both to lines mentioning a given token, such as an export
// ID written by the export runner.
package logtail
