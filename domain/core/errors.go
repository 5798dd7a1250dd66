package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors
	ErrMalformedCounts = errors.New("malformed response counts")
	ErrEmptyCounts     = fmt.Errorf("%w: vectors are empty", ErrMalformedCounts)
	ErrLengthMismatch  = fmt.Errorf("%w: vectors differ in length", ErrMalformedCounts)
	ErrOddLength       = fmt.Errorf("%w: vector length is odd", ErrMalformedCounts)
	ErrNegativeCount   = fmt.Errorf("%w: negative cell count", ErrMalformedCounts)

	// Solver errors
	ErrBadProblem = errors.New("ill-formed optimization problem")
)

// Error constructors with context
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewCellError(vector string, index int, value float64) error {
	return fmt.Errorf("%w: %s[%d] = %v", ErrNegativeCount, vector, index, value)
}

// Error checking helpers
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedCounts)
}
