package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	err := Wrap(ErrPolicy, "link", "illegal tag", nil)
	if !errors.Is(err, ErrPolicy) {
		t.Fatalf("expected policy marker, got %v", err)
	}
	if got := err.Error(); got != "policy error: link: illegal tag" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := Wrap(ErrIO, "protect", "chmod", cause)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected i/o marker, got %v", err)
	}
	if got := err.Error(); got != "i/o error: protect: chmod: permission denied" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestWrapNilMarkerDefaultsToIO(t *testing.T) {
	err := Wrap(nil, "", "", nil)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected default i/o marker, got %v", err)
	}
	if got := err.Error(); got != "i/o error: operation failed" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestIsFatalPolicy(t *testing.T) {
	if !IsFatalPolicy(Wrap(ErrClassification, "taxonomy", "no stage", nil)) {
		t.Error("classification errors are fatal policy failures")
	}
	if IsFatalPolicy(Wrap(ErrCheck, "check", "names", nil)) {
		t.Error("check failures are not policy failures")
	}
}
