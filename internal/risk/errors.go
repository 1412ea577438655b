package risk

import (
	"errors"
	"fmt"
	"math"
)

// ValidationError reports an input outside its documented domain. The
// aggregator surfaces it immediately and never coerces the value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("risk: invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrComputation is returned when the formula produces a non-finite value.
// Given input validation this should be unreachable; it exists so a NaN can
// never propagate silently into a result.
var ErrComputation = errors.New("risk: computation produced a non-finite value")

// validateUnit rejects values outside [0,1], including NaN and infinities.
func validateUnit(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	}
	if v < 0 || v > 1 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be in [0,1], got %g", v)}
	}
	return nil
}

// validatePositive rejects values that are not finite and strictly positive.
func validatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	}
	if v <= 0 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be > 0, got %g", v)}
	}
	return nil
}

// validateNonNegative rejects values that are not finite and >= 0.
func validateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be >= 0, got %g", v)}
	}
	return nil
}
