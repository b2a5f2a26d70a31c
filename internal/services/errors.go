package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyInput    = errors.New("empty input")
	ErrTranscription = errors.New("transcription error")
	ErrIO            = errors.New("io error")
	ErrParse         = errors.New("parse error")
	ErrConfiguration = errors.New("configuration error")
	ErrExternalTool  = errors.New("external tool error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error to the short label used in batch summaries and logs.
// Markers are checked in order of specificity so a transcription failure caused
// by an external tool still reports as a transcription failure.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrTranscription):
		return "transcription"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	default:
		return "failed"
	}
}

// IsUserError reports whether err stems from bad input or configuration rather
// than a runtime failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
