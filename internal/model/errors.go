package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned (wrapped in *ParamError) when a problem is rejected
	// before any table is allocated.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNumericOverflow reports that at least one exponentiated cost saturated to +Inf.
	ErrNumericOverflow = errors.New("numeric overflow")
)

// ParamError names the offending field.
type ParamError struct {
	Field  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidParameter, e.Field, e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParameter }

func invalid(field, reason string) error {
	return &ParamError{Field: field, Reason: reason}
}
