package project

import "fmt"

// DocumentError reports a project file that cannot be read or parsed.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("project %s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for status reporting.
func (e *DocumentError) ErrorKind() string { return "validation" }
