package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMatch is matched by every *ValidationError.
var ErrInvalidMatch = errors.New("invalid match")

// FieldError is one problem found in the document, e.g.
// "matchData.rallies[3].result".
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError collects every problem found while loading a match.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}
	return fmt.Sprintf("invalid match (%d problems): %s", len(e.Errors), strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidMatch
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
