package model

import (
	"errors"
	"fmt"
)

// ErrAlreadyResolved represents a cancel attempt against a reservation that
// already left the pending state (paid, cancelled or expired server-side).
// Callers treat it as a soft success.
var ErrAlreadyResolved = errors.New("reservation already resolved")

// UnexpectedResponseError represents an unexpected response from the rental API.
type UnexpectedResponseError struct {
	RequestID    string
	StatusCode   int
	ResponseBody string
}

// Error returns the string representation of the error.
func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response from rental API, request ID: %s, status: %d, error: %s", e.RequestID, e.StatusCode, e.ResponseBody)
}
