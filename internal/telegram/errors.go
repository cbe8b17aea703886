package telegram

import (
	"errors"
	"fmt"
)

// ErrNotOK is matched by every *APIError via errors.Is.
var ErrNotOK = errors.New("telegram: response not ok")

// APIError is returned when the response envelope has ok=false.
type APIError struct {
	Method      string
	ErrorCode   int
	Description string
	Parameters  *ResponseParameters
}

func (e *APIError) Error() string {
	desc := e.Description
	if desc == "" {
		desc = "response from Telegram API is not ok"
	}
	if e.ErrorCode != 0 {
		return fmt.Sprintf("%s failed: %d %s", e.Method, e.ErrorCode, desc)
	}
	return fmt.Sprintf("%s failed: %s", e.Method, desc)
}

func (e *APIError) Unwrap() error { return ErrNotOK }

// DecodeError is returned when a response body or its result payload
// cannot be decoded into the expected record.
type DecodeError struct {
	Method     string
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to parse %s response (status %d): %v", e.Method, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to parse %s response: %v", e.Method, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ArgumentError reports an invalid request parameter. No request is sent.
type ArgumentError struct {
	Name  string
	Value int
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %d: must be non-negative", e.Name, e.Value)
}
