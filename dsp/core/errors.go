package core

import (
	"errors"
	"fmt"
)

// ErrValidation is the parent of every parameter or request rejection.
// Validation always happens before any sample is processed.
var ErrValidation = errors.New("validation error")

var (
	// ErrInvalidInput reports a malformed request, such as supplying both
	// or neither of a preset and a manual parameter set.
	ErrInvalidInput = fmt.Errorf("%w: invalid input", ErrValidation)

	// ErrInvalidParameter reports a numeric field outside its documented domain.
	ErrInvalidParameter = fmt.Errorf("%w: invalid parameter", ErrValidation)
)

// ErrInternalInvariant reports a broken internal contract, for example a
// stage receiving a buffer with a different channel count than it was built
// for. It indicates a programming error and is never recovered from.
var ErrInternalInvariant = errors.New("internal invariant violated")

// InvalidParameter returns an error wrapping ErrInvalidParameter that names
// the offending field and value.
func InvalidParameter(field string, value any, constraint string) error {
	return fmt.Errorf("%w: %s = %v (%s)", ErrInvalidParameter, field, value, constraint)
}
