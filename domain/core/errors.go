package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Parse errors
	ErrMalformedYearWeek = errors.New("malformed ISO year-week")
	ErrMalformedNumber   = errors.New("malformed numeric value")
	ErrMissingColumn     = errors.New("required column missing")

	// Data gap errors
	ErrEmptyColumn   = errors.New("column has no known values")
	ErrDuplicateCell = errors.New("duplicate (date, age band) entry")

	// Degenerate statistical input
	ErrZeroVariance     = errors.New("column has zero variance")
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Error constructors with context
func NewRowError(row int, column, value string, err error) error {
	return fmt.Errorf("%w: row %d column %s value %q", err, row, column, value)
}

func NewColumnError(column string, err error) error {
	return fmt.Errorf("%w: %s", err, column)
}

// Error checking helpers
func IsParseError(err error) bool {
	return errors.Is(err, ErrMalformedYearWeek) ||
		errors.Is(err, ErrMalformedNumber) ||
		errors.Is(err, ErrMissingColumn)
}

func IsDataGapError(err error) bool {
	return errors.Is(err, ErrEmptyColumn) ||
		errors.Is(err, ErrDuplicateCell)
}

func IsDegenerateError(err error) bool {
	return errors.Is(err, ErrZeroVariance) ||
		errors.Is(err, ErrInsufficientData)
}
