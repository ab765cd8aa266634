// Package preflight provides readiness checks for the directories and media
// tools cutroom depends on.
//
// The CLI "doctor" command runs RunAll plus CheckSystemDeps and renders the
// results; "export" runs RunAll first so a doomed export fails before any
// ffmpeg work starts.
package preflight
