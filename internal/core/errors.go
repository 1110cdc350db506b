package core

import (
	"errors"
	"fmt"
)

// ErrPrecondition is matched by every PreconditionError via errors.Is.
var ErrPrecondition = errors.New("precondition violated")

// PreconditionError reports structurally invalid input to an engine
// operation. Engines return it before mutating any state.
type PreconditionError struct {
	// Op names the rejected operation, e.g. "lattice.ignite".
	Op string
	// Reason is a human-readable description.
	Reason string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, ErrPrecondition, e.Reason)
}

// Is lets errors.Is(err, ErrPrecondition) match.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// Preconditionf builds a PreconditionError with a formatted reason.
func Preconditionf(op, format string, args ...any) error {
	return &PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
