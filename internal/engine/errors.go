package engine

import (
	"fmt"
	"strings"
)

// UnrecognizedSourceError means an input reference could not be
// classified as any source kind. Fatal to that source only.
type UnrecognizedSourceError struct {
	Ref string
}

func (e *UnrecognizedSourceError) Error() string {
	return fmt.Sprintf("unrecognized source %q", e.Ref)
}

// TranscriptUnavailableError means the full fallback chain produced no
// usable transcript for a video.
type TranscriptUnavailableError struct {
	VideoID string
	Reason  string
}

func (e *TranscriptUnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("no usable transcript for video %s", e.VideoID)
	}
	return fmt.Sprintf("no usable transcript for video %s: %s", e.VideoID, e.Reason)
}

// GenerationError means the external model call failed or returned
// content that is not parseable JSON. Callers decide whether to retry;
// it never crosses the orchestrator boundary as a batch failure.
type GenerationError struct {
	Message string
	Raw     string // raw model response, when one was received
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Message, e.Err)
	}
	return "generation failed: " + e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

// FieldViolation is one schema constraint an artifact broke.
type FieldViolation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

func (v FieldViolation) String() string {
	return fmt.Sprintf("Field '%s': %s (%s)", v.Field, v.Message, v.Constraint)
}

// ValidationError is the all-or-nothing result of artifact validation.
// It drives the repair loop and is never raised past the expander.
type ValidationError struct {
	ContentType ContentType
	Violations  []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s failed validation: %s", e.ContentType, strings.Join(parts, "; "))
}
