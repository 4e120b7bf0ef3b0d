package mapping

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentNotFound is returned when a mapping document does not exist.
	ErrDocumentNotFound = errors.New("mapping: document not found")

	// ErrParse is wrapped when a document is not valid YAML for its type.
	ErrParse = errors.New("mapping: parse error")
)

// LoadError reports a document that could not be read or parsed.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
