package media

import "fmt"

// ProcessingError wraps a media relay or detection failure. Callers are
// expected to degrade to the raw text input rather than fail the turn.
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("media processing: %s: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
