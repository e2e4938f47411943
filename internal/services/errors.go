package services

import (
	"errors"
	"fmt"
)

const (
	generationFailedPrefix = "Generation failed: "
	unexpectedErrorMessage = "An unexpected error occurred."
)

// InvocationError reports a failed model call for a flow. The wrapped error
// is one of llm.ErrEmptyResponse, llm.ErrSchemaMismatch or a provider error.
type InvocationError struct {
	Flow Flow
	Err  error
}

func (e *InvocationError) Error() string {
	return e.Err.Error()
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// IsInvocationError reports whether err is (or wraps) an *InvocationError
func IsInvocationError(err error) bool {
	var ierr *InvocationError
	return errors.As(err, &ierr)
}

// GenerationFailedMessage formats a non-validation failure for the user
func GenerationFailedMessage(err error) string {
	msg := unexpectedErrorMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return fmt.Sprintf("%s%s", generationFailedPrefix, msg)
}
