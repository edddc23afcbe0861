// Package rerror defines the discriminated error kinds returned across
// the design pipeline (chemistry, optimizer, simulator) so
// that every package reports failures the same way a caller can match
// on with errors.As, instead of ad-hoc error strings.
package rerror

import (
	"errors"
	"fmt"
)

// Kind is a machine-distinguishable failure category.
type Kind string

const (
	InvalidComposition    Kind = "InvalidComposition"
	UnknownMembrane       Kind = "UnknownMembrane"
	NoFeasibleConfig      Kind = "NoFeasibleConfiguration"
	ChemistryError        Kind = "ChemistryError"
	PressureLimitExceeded Kind = "PressureLimitExceeded"
	FluxOutOfRange        Kind = "FluxOutOfRange"
	ConvergenceFailure    Kind = "ConvergenceFailure"
	Cancelled             Kind = "Cancelled"
)

// DesignError is the error type every exported design-pipeline
// operation returns on failure. Wrap a lower-level cause with Err so
// callers can still unwrap to it.
type DesignError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *DesignError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DesignError) Unwrap() error {
	return e.Err
}

// New builds a DesignError with no wrapped cause.
func New(kind Kind, message string) *DesignError {
	return &DesignError{Kind: kind, Message: message}
}

// Wrap builds a DesignError around a lower-level cause.
func Wrap(kind Kind, message string, err error) *DesignError {
	return &DesignError{Kind: kind, Message: message, Err: err}
}

// Is reports whether err is a *DesignError of the given kind.
func Is(err error, kind Kind) bool {
	var de *DesignError
	if !errors.As(err, &de) {
		return false
	}
	return de.Kind == kind
}
