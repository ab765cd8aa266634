// Package catalog is the registry of imported source media.
//
// A Catalog hands out stable asset IDs, validates imports against a fixed
// extension allow-list, and memoizes probed durations in a ProbeCache owned
// by the catalog instance. Probe failures never block an import: the catalog
// reports a fallback duration and logs a warning instead.
//
// Assets are immutable references to files on disk. Nothing in this package
// reads or writes media bytes beyond the readability check done on import.
package catalog
