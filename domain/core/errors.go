package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data errors: malformed, missing, or insufficiently variable input
	ErrData             = errors.New("data error")
	ErrColumnMissing    = fmt.Errorf("%w: required column missing", ErrData)
	ErrColumnType       = fmt.Errorf("%w: column has wrong type", ErrData)
	ErrUnparseableDate  = fmt.Errorf("%w: unparseable timestamp", ErrData)
	ErrDegenerate       = fmt.Errorf("%w: not enough distinct values", ErrData)
	ErrEmptyInput       = fmt.Errorf("%w: empty input", ErrData)
	ErrLengthMismatch   = fmt.Errorf("%w: column length mismatch", ErrData)

	// Config errors: caller-supplied parameters inconsistent with the contract
	ErrConfig        = errors.New("config error")
	ErrUnknownColumn = fmt.Errorf("%w: unknown column", ErrConfig)
)

// Error constructors with context
func NewColumnMissingError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnMissing, column)
}

func NewColumnTypeError(column, want string) error {
	return fmt.Errorf("%w: %s is not %s", ErrColumnType, column, want)
}

func NewDateError(value string, cause error) error {
	return fmt.Errorf("%w: %q: %v", ErrUnparseableDate, value, cause)
}

func NewDegenerateError(column string, distinct, needed int) error {
	return fmt.Errorf("%w: %s has %d distinct values, need %d", ErrDegenerate, column, distinct, needed)
}

func NewEmptyInputError(what string) error {
	return fmt.Errorf("%w: %s", ErrEmptyInput, what)
}

func NewConfigError(param, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfig, param, reason)
}

func NewUnknownColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
}

// Error checking helpers
func IsDataError(err error) bool {
	return errors.Is(err, ErrData)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}
