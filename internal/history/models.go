package history

import (
	"context"
	"errors"
	"time"
)

// Status is the outcome of an export run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Entry is one recorded export run.
type Entry struct {
	ID              string
	ProjectPath     string
	OutputPath      string
	Status          Status
	ErrorKind       string
	ErrorMessage    string
	Steps           int
	DurationSeconds float64
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Elapsed returns the wall time of the run.
func (e Entry) Elapsed() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

type kinded interface {
	ErrorKind() string
}

// Classify derives the status, error kind and message recorded for err.
func Classify(err error) (Status, string, string) {
	if err == nil {
		return StatusSucceeded, "", ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return StatusCancelled, "cancelled", err.Error()
	}
	kind := "internal"
	var k kinded
	if errors.As(err, &k) {
		kind = k.ErrorKind()
	}
	return StatusFailed, kind, err.Error()
}
