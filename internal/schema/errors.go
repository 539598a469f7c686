package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is matched by every *MalformedError.
var ErrMalformed = errors.New("malformed schema")

// MalformedError reports a schema document that does not have the shape the
// generator expects: a syntax error, a missing keyword, or a root that is not
// an object.
type MalformedError struct {
	Pointer    string
	Message    string
	Violations []string // every shape-check violation, when known
	Err        error
}

func (e *MalformedError) Error() string {
	msg := fmt.Sprintf("malformed schema at %s: %s", displayPointer(e.Pointer), e.Message)
	if len(e.Violations) > 0 {
		msg += " (" + strings.Join(e.Violations, "; ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

func (e *MalformedError) Unwrap() error { return e.Err }

func malformedf(ptr, format string, args ...any) *MalformedError {
	return &MalformedError{Pointer: ptr, Message: fmt.Sprintf(format, args...)}
}
