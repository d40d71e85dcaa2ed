package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for pipeline error classification. Every error surfaced to
// a caller wraps exactly one of these so transports can map it to a response
// kind without inspecting message text.
var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrDuplicateRecording  = errors.New("duplicate recording")
	ErrIncompleteMetadata  = errors.New("incomplete metadata")
	ErrNoTranscript        = errors.New("no transcript available")
	ErrEmptyTranscript     = errors.New("empty transcript")
	ErrTransient           = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns the stable taxonomy name for an error, or "internal" when the
// error carries no known marker.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrEmptyTranscript):
		return "empty_transcript"
	case errors.Is(err, ErrNoTranscript):
		return "no_transcript"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateRecording):
		return "duplicate_recording"
	case errors.Is(err, ErrIncompleteMetadata):
		return "incomplete_metadata"
	case errors.Is(err, ErrTranscriptionFailed):
		return "transcription_failed"
	default:
		return "internal"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
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
