package export

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTimeline reports an export request with no video clips.
	ErrEmptyTimeline = errors.New("timeline has no video clips")
	// ErrExportInFlight reports an export started while another is running.
	ErrExportInFlight = errors.New("an export is already running")
)

// StepFailedError reports the engine step that aborted an export. Message is
// the engine diagnostic verbatim.
type StepFailedError struct {
	Step    StepKind
	Index   int
	Message string
	Err     error
}

func (e *StepFailedError) Error() string {
	return fmt.Sprintf("export step %d (%s) failed: %s", e.Index+1, e.Step, e.Message)
}

func (e *StepFailedError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for status reporting.
func (e *StepFailedError) ErrorKind() string { return "external_tool" }
