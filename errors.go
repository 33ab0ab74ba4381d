package codexi

import (
	"errors"
	"fmt"

	"github.com/etnz/codexi/date"
)

var (
	// ErrInvalidDate is returned when a text is not a valid date.
	ErrInvalidDate = date.ErrInvalid
	// ErrInvalidAmount is returned when an amount cannot be stored in an operation.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrDateConflict is returned when an operation would be dated before an anchor.
	ErrDateConflict = errors.New("date conflict")
	// ErrInsufficientFunds is returned when a debit exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotEmpty is returned when initializing a ledger that already has operations.
	ErrNotEmpty = errors.New("ledger is not empty")
	// ErrOutOfBounds is returned when an operation index does not exist.
	ErrOutOfBounds = errors.New("index out of bounds")
	// ErrProtectedOperation is returned when deleting a system operation.
	ErrProtectedOperation = errors.New("protected operation")
	// ErrUnrecognized is returned when a text is not a known flow or kind.
	ErrUnrecognized = errors.New("unrecognized value")
)

// UnrecognizedError reports the text that could not be parsed into an enumeration.
type UnrecognizedError struct {
	Type  string // "flow", "kind", ...
	Value string
}

func (e *UnrecognizedError) Error() string {
	return fmt.Sprintf("unrecognized %s %q", e.Type, e.Value)
}

func (e *UnrecognizedError) Unwrap() error { return ErrUnrecognized }

func unrecognized(typ, value string) error {
	return &UnrecognizedError{Type: typ, Value: value}
}
