package utils

import (
	"errors"
	"fmt"
)

// AppError tags an error with the analysis stage it came from (dispatch,
// montecarlo, study, ...) and a message safe to surface to callers.
type AppError struct {
	Op  string
	Msg string
	Err error
}

// NewAppError constructs an AppError. err may be nil when the fault
// originates here rather than wrapping a lower-level error.
func NewAppError(op, msg string, err error) error {
	return &AppError{Op: op, Msg: msg, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// OpOf reports the stage an error originated from, or "" when the error is
// not an AppError.
func OpOf(err error) string {
	var app *AppError
	if errors.As(err, &app) {
		return app.Op
	}
	return ""
}
