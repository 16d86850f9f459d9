package parser

import (
	"errors"
	"fmt"
)

// Kind classifies why an input line could not be turned into a record.
type Kind string

const (
	MissingPrefix    Kind = "MissingPrefix"
	NoExercise       Kind = "NoExercise"
	UnknownExercise  Kind = "UnknownExercise"
	UnparsableFormat Kind = "UnparsableFormat"
	InvalidDate      Kind = "InvalidDate"
	InvalidRepToken  Kind = "InvalidRepToken"
)

// Error is a user-input failure. Msg names the offending text.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, if err is or wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// IsKind reports whether err is or wraps an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
