// Package history records finished export runs in a local SQLite database.
//
// The schema is versioned through embedded SQL migrations applied on Open.
// Rows are written once per export and never updated.
package history
