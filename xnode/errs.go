package xnode

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrNoSuchElement  = errors.New("no such element")
)

// MalformedInputError reports a document that cannot be processed under the
// active configuration, such as a keyed element missing its key attribute.
type MalformedInputError struct {
	// Path locates the offending element, if known.
	Path string
	// Reason is a short explanation.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

func (e *MalformedInputError) Error() string {
	msg := "malformed input"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// Malformed returns a *MalformedInputError for path with a formatted reason.
func Malformed(path, format string, args ...any) *MalformedInputError {
	return &MalformedInputError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
