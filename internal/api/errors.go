package api

import (
	"errors"
	"fmt"
)

// DefaultErrorMessage is shown when the store API gives no message of its own.
const DefaultErrorMessage = "發生錯誤，請稍後再試"

var (
	// ErrTransport marks failures where no HTTP response was received.
	ErrTransport = errors.New("transport failure")
	// ErrRejected marks non-2xx replies or replies with success=false.
	ErrRejected = errors.New("request rejected")
	// ErrDecode marks replies whose body could not be decoded.
	ErrDecode = errors.New("malformed response")
)

// APIError describes one failed call to the store API.
type APIError struct {
	Method  string
	Path    string
	Status  int    // zero when the request never got a response
	Message string // server-supplied message, verbatim
	Err     error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.UserMessage())
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// UserMessage is the text suitable for an error alert.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return DefaultErrorMessage
}

// MessageOf extracts the user-facing message from any error returned by the
// client, falling back to DefaultErrorMessage.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return DefaultErrorMessage
}
