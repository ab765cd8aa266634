package catalog

import "fmt"

// ImportError reports a file that could not be registered.
type ImportError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("import %s: %s", e.Path, e.Reason)
}

func (e *ImportError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for status reporting.
func (e *ImportError) ErrorKind() string { return "validation" }

// UnknownMediaError reports a media ID that is not registered.
type UnknownMediaError struct {
	ID string
}

func (e *UnknownMediaError) Error() string {
	return fmt.Sprintf("unknown media id %q", e.ID)
}

// ErrorKind classifies the error for status reporting.
func (e *UnknownMediaError) ErrorKind() string { return "not_found" }
