package rerror

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(InvalidComposition, "negative concentration")
	if !Is(err, InvalidComposition) {
		t.Error("expected Is to match InvalidComposition")
	}
	if Is(err, ChemistryError) {
		t.Error("did not expect Is to match a different kind")
	}
}

func TestIsMatchesWrappedError(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ChemistryError, "phreeqc failed", cause)
	wrapped := fmt.Errorf("during evaluation: %w", err)
	if !Is(wrapped, ChemistryError) {
		t.Error("expected Is to see through fmt.Errorf wrapping")
	}
	if !errors.Is(wrapped, err) {
		t.Error("expected errors.Is to match the original DesignError")
	}
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ChemistryError, "phreeqc failed", cause)
	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the wrapped cause")
	}
}
