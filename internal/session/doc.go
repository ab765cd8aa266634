// Package session owns the project currently being edited.
//
// A Session holds the open project, its document path and a dirty flag, and
// routes edits through the catalog and timeline. Exports run on the session's
// export.Runner; while one is in flight the session refuses to replace or
// close its project so the running plan never outlives its inputs.
package session
