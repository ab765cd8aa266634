// Package timeline models clips placed on the video and audio tracks.
//
// A Clip is a non-destructive (in, out, start) reference into one catalog
// asset. Tracks keep their clips ordered by start time with a stable sort, so
// clips sharing a start time stay in insertion order; overlapping clips are
// allowed and left for the export compiler to resolve by that order.
package timeline
