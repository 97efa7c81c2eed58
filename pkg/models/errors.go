package models

import (
	"errors"
	"fmt"
)

// ErrNoData marks an empty query result. It is a valid outcome, not a
// failure: callers render it as an explicit "no data" message.
var ErrNoData = errors.New("no data")

// QueryError wraps a store-level failure (connection, malformed statement,
// timeout). Propagated up to the tool boundary where it becomes a
// caller-visible error string.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError wraps err as a QueryError for operation op
func NewQueryError(op string, err error) *QueryError {
	return &QueryError{Op: op, Err: err}
}

// ValidationError marks a bad tool argument. Reported immediately,
// no query is issued.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

// NewValidationError creates validation error for a parameter
func NewValidationError(param, reason string) *ValidationError {
	return &ValidationError{Param: param, Reason: reason}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNoData reports whether err means an empty result set
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}
