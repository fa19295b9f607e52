package storage

import (
	"errors"
	"fmt"
)

// ErrorCode classifies audio source failures
type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeIO                ErrorCode = "IO_ERROR"
	ErrCodeDecodeFailed      ErrorCode = "DECODE_FAILED"
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCodeTimeout           ErrorCode = "TIMEOUT"
)

// SourceError describes a failure to fetch or decode an audio reference.
// Fetch failures are fatal for an analysis: there is nothing to score
// without the audio.
type SourceError struct {
	Code    ErrorCode
	Ref     string
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("audio source error [%s] for %q: %s: %v", e.Code, e.Ref, e.Message, e.Cause)
	}
	return fmt.Sprintf("audio source error [%s] for %q: %s", e.Code, e.Ref, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// NewSourceError creates a SourceError with the given classification
func NewSourceError(code ErrorCode, ref, message string, cause error) *SourceError {
	return &SourceError{
		Code:    code,
		Ref:     ref,
		Message: message,
		Cause:   cause,
	}
}

// AsSourceError extracts a SourceError from an error chain
func AsSourceError(err error) (*SourceError, bool) {
	var sourceErr *SourceError
	if errors.As(err, &sourceErr) {
		return sourceErr, true
	}
	return nil, false
}
