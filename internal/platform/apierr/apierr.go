// Package apierr carries an HTTP status and a machine-readable code alongside
// a wrapped error, so services can decide the response shape without importing
// gin. Handlers unwrap it with errors.As and fall back to their own default
// status when the chain holds no *Error.
package apierr

import "fmt"

type Error struct {
	Status int
	Code   string
	Err    error
}

// Error prefers the wrapped error's message; Code and Status are fallbacks
// for values constructed without one.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}
