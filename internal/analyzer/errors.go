package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoClassifier is reported when the analyzer has no model configured.
	ErrNoClassifier = errors.New("no classifier configured")
	// ErrEmptyResponse is reported when the model returned no text.
	ErrEmptyResponse = errors.New("empty classification response")
)

// ClassificationServiceError means the model call could not be completed.
type ClassificationServiceError struct {
	Err error
}

func (e *ClassificationServiceError) Error() string {
	return fmt.Sprintf("classification service: %v", e.Err)
}

func (e *ClassificationServiceError) Unwrap() error { return e.Err }

// MalformedResponseError means the model answered with text that does not
// contain a usable analysis.
type MalformedResponseError struct {
	Reason string
	// Excerpt is the start of the raw response, for logs.
	Excerpt string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed classification response: %s: %v", e.Reason, e.Err)
	}
	return "malformed classification response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
