package engine

import (
	"errors"

	"github.com/rotrain/rotrain/pkg/rerror"
)

// ErrorKind is the contract's machine-distinguishable failure category,
// re-exported under the names the contract uses. It is a type alias
// rather than a new type: pkg/rerror and its callers (pkg/chemistry,
// pkg/optimizer, pkg/simulate) can't import this package
// without cycling back to themselves, so the kinds live in pkg/rerror
// and this package just gives them their contract-facing names.
type ErrorKind = rerror.Kind

const (
	ErrInvalidComposition    = rerror.InvalidComposition
	ErrUnknownMembrane       = rerror.UnknownMembrane
	ErrNoFeasibleConfig      = rerror.NoFeasibleConfig
	ErrChemistry             = rerror.ChemistryError
	ErrPressureLimitExceeded = rerror.PressureLimitExceeded
	ErrFluxOutOfRange        = rerror.FluxOutOfRange
	ErrConvergenceFailure    = rerror.ConvergenceFailure
	ErrCancelled             = rerror.Cancelled
)

// DesignError is the structured failure every operation returns instead
// of a bare error string.
type DesignError = rerror.DesignError

// KindOf extracts the error kind from err, ok is false if err is not a
// *DesignError.
func KindOf(err error) (ErrorKind, bool) {
	var de *DesignError
	if !errors.As(err, &de) {
		return "", false
	}
	return de.Kind, true
}
