package timeline

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTrack reports a track name other than video or audio.
	ErrUnknownTrack = errors.New("unknown track")
	// ErrClipNotFound reports a clip that is not placed on the timeline.
	ErrClipNotFound = errors.New("clip not found on timeline")
)

// InvalidRangeError reports a trim range outside the source media.
type InvalidRangeError struct {
	In       float64
	Out      float64
	Duration *float64
}

func (e *InvalidRangeError) Error() string {
	if e.Duration != nil {
		return fmt.Sprintf("invalid range [%g, %g): need 0 <= in < out <= %g", e.In, e.Out, *e.Duration)
	}
	return fmt.Sprintf("invalid range [%g, %g): need 0 <= in < out", e.In, e.Out)
}

// ErrorKind classifies the error for status reporting.
func (e *InvalidRangeError) ErrorKind() string { return "validation" }

// ValidateRange checks 0 <= in < out and, when duration is known, out <= duration.
func ValidateRange(in, out float64, duration *float64) error {
	if !(in >= 0) || !(out > in) || (duration != nil && out > *duration) {
		return &InvalidRangeError{In: in, Out: out, Duration: duration}
	}
	return nil
}
