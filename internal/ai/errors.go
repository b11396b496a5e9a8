// errors.go - Typed errors returned by the AI layer

package ai

import (
	"errors"
	"fmt"
)

// ModelUnavailableError means every configured model candidate failed
// for a single request. LastError carries the final candidate's failure.
type ModelUnavailableError struct {
	Attempted int
	LastError string
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("all %d model candidates failed, last error: %s", e.Attempted, e.LastError)
}

// MalformedResponseError means the model returned text but no parseable
// JSON object could be recovered from it.
type MalformedResponseError struct {
	Attempts int
	Raw      string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("no valid JSON object after %d parse attempts", e.Attempts)
}

// IsModelUnavailable reports whether err wraps a ModelUnavailableError.
func IsModelUnavailable(err error) bool {
	var target *ModelUnavailableError
	return errors.As(err, &target)
}

// IsMalformedResponse reports whether err wraps a MalformedResponseError.
func IsMalformedResponse(err error) bool {
	var target *MalformedResponseError
	return errors.As(err, &target)
}
