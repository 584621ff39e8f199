package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Is(t *testing.T) {
	wrapped := WrapError(ErrToolNotFound, fmt.Errorf("no tool named %q", "bogus"))

	if !errors.Is(wrapped, ErrToolNotFound) {
		t.Error("expected wrapped error to match by code")
	}
	if errors.Is(wrapped, ErrCollectorNotFound) {
		t.Error("expected no match across different codes")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	wrapped := WrapError(ErrProcessFailed, cause)

	if !errors.Is(wrapped, cause) {
		t.Error("expected unwrap chain to reach cause")
	}
}

func TestError_Message(t *testing.T) {
	e := &Error{Code: "MISSING_NAME", Message: "registrable type has no name"}
	want := "[MISSING_NAME] registrable type has no name"
	if e.Error() != want {
		t.Errorf("expected %q, got %q", want, e.Error())
	}

	withCause := WrapError(e, fmt.Errorf("kind tool"))
	if withCause.Error() != want+": kind tool" {
		t.Errorf("unexpected error string %q", withCause.Error())
	}
}
