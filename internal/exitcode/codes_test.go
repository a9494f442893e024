package exitcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeNil(t *testing.T) {
	if got := Code(nil); got != Success {
		t.Errorf("Code(nil) = %d, want %d", got, Success)
	}
}

func TestCodeUncoded(t *testing.T) {
	if got := Code(errors.New("boom")); got != ErrGeneral {
		t.Errorf("Code(uncoded) = %d, want %d", got, ErrGeneral)
	}
}

func TestCodeWrapped(t *testing.T) {
	inner := Newf(ErrMissingTool, "jmap not found")
	wrapped := fmt.Errorf("checking requirements: %w", inner)

	if got := Code(wrapped); got != ErrMissingTool {
		t.Errorf("Code(wrapped) = %d, want %d", got, ErrMissingTool)
	}
	if !Is(wrapped, ErrMissingTool) {
		t.Error("Is(wrapped, ErrMissingTool) = false, want true")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(ErrNoSources, nil) != nil {
		t.Error("Wrap(code, nil) should return nil")
	}
}

func TestUnwrap(t *testing.T) {
	sentinel := errors.New("no java files")
	coded := Wrap(ErrNoSources, sentinel)
	if !errors.Is(coded, sentinel) {
		t.Error("coded error should unwrap to the original error")
	}
}
