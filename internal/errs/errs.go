// Package errs defines the error taxonomy shared by all pwf components.
//
// Every failure surfaced to the CLI is tagged with one of the exported
// sentinel errors so command handlers can classify it without string
// matching: classification failures abort immediately, policy failures mean
// the requested operation violates a fixed business rule, check failures
// aggregate one category of violations, and I/O failures propagate the
// underlying filesystem error.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClassification marks paths that cannot be mapped to a taxonomy stage.
	ErrClassification = errors.New("classification error")
	// ErrPolicy marks operations rejected by a fixed business rule.
	ErrPolicy = errors.New("policy error")
	// ErrCheck marks an aggregate consistency-check failure for one category.
	ErrCheck = errors.New("check failed")
	// ErrIO marks an underlying filesystem operation failure.
	ErrIO = errors.New("i/o error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, message string, err error) error {
	detail := buildDetail(component, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatalPolicy reports whether err represents a rejected request rather
// than a broken archive (used by the CLI to pick the exit status).
func IsFatalPolicy(err error) bool {
	return errors.Is(err, ErrPolicy) || errors.Is(err, ErrClassification)
}

func buildDetail(component, message string) string {
	parts := make([]string, 0, 2)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failed"
	}
	return strings.Join(parts, ": ")
}
