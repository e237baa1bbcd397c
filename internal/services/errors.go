package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Markers classify failures. Wrap attaches one; FailureKind reads it back.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap prefixes err with "stage: operation: message" and tags it with marker.
// Empty parts are dropped. A nil marker means ErrTransient.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	detail := joinNonEmpty(": ", stage, operation, message)
	if detail == "" {
		detail = "service failure"
	}
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// FailureKind maps an error to the failure_kind label written to the run log.
func FailureKind(err error) string {
	if err == nil {
		return ""
	}
	kinds := []struct {
		target error
		label  string
	}{
		{context.Canceled, "canceled"},
		{context.DeadlineExceeded, "timed_out"},
		{ErrValidation, "validation_failed"},
		{ErrConfiguration, "configuration_invalid"},
		{ErrExternalTool, "external_tool_failed"},
	}
	for _, k := range kinds {
		if errors.Is(err, k.target) {
			return k.label
		}
	}
	return "unexpected_failure"
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
