// Package export compiles a project timeline into an ordered plan of media
// engine steps and executes that plan.
//
// Compile is pure: it resolves every clip against the catalog and emits trim,
// concat, mix and mux steps without touching the filesystem. Executor runs a
// plan step by step inside a fresh scratch directory and promotes the final
// mux into place only when every step succeeded. Runner moves an execution
// off the caller's goroutine and refuses a second export while one is in
// flight.
package export
