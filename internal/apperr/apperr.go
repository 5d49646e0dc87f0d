// Package apperr defines the error kinds an export run can fail with.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	KindConfig         Kind = "ConfigError"
	KindInput          Kind = "InputError"
	KindAuthentication Kind = "AuthenticationError"
	KindNotFound       Kind = "NotFoundError"
	KindNetwork        Kind = "NetworkError"
	KindMalformed      Kind = "MalformedRecordError"
	KindIO             Kind = "IOError"
)

// Error is a classified failure. Two Errors match under errors.Is when their
// kinds are equal, so the sentinels below can be used as targets.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

var (
	ErrConfig         = &Error{Kind: KindConfig, Message: "invalid configuration"}
	ErrInput          = &Error{Kind: KindInput, Message: "invalid input"}
	ErrAuthentication = &Error{Kind: KindAuthentication, Message: "authentication failed"}
	ErrNotFound       = &Error{Kind: KindNotFound, Message: "not found"}
	ErrNetwork        = &Error{Kind: KindNetwork, Message: "network failure"}
	ErrMalformed      = &Error{Kind: KindMalformed, Message: "malformed record"}
	ErrIO             = &Error{Kind: KindIO, Message: "i/o failure"}
)

// New returns an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error of the given kind wrapping err.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
