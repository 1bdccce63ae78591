// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling with rich context for Parley.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies Parley errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeGenerationFailure indicates the generation capability was
	// unavailable or failed after retries.
	CodeGenerationFailure ErrorCode = "GENERATION_FAILURE"

	// CodeMalformedOutput indicates the generation capability returned
	// output that could not be decoded into the expected structure.
	CodeMalformedOutput ErrorCode = "MALFORMED_OUTPUT"

	// CodeConfigError indicates an inconsistent or invalid configuration.
	CodeConfigError ErrorCode = "CONFIG_ERROR"

	// CodePersistence indicates a storage read or write failed.
	CodePersistence ErrorCode = "PERSISTENCE_FAILURE"

	// CodeRateLimit indicates rate limiting was triggered upstream.
	CodeRateLimit ErrorCode = "RATE_LIMITED"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound ErrorCode = "NOT_FOUND"
)

// ParleyError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type ParleyError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Recoverable bool
}

// Error implements the error interface.
func (e *ParleyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *ParleyError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *ParleyError) MarshalJSON() ([]byte, error) {
	type Alias ParleyError
	return json.Marshal(&struct {
		Message     string `json:"message"`
		Code        string `json:"code"`
		Err         string `json:"error,omitempty"`
		Recoverable bool   `json:"recoverable"`
		*Alias
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         fmt.Sprintf("%v", e.Err),
		Recoverable: e.Recoverable,
		Alias:       (*Alias)(e),
	})
}

// New creates a new ParleyError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *ParleyError {
	return &ParleyError{
		Code:    code,
		Message: msg,
		Err:     cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *ParleyError) WithContext(key string, value interface{}) *ParleyError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *ParleyError) WithRecoverable(recoverable bool) *ParleyError {
	e.Recoverable = recoverable
	return e
}

// AsParleyError attempts to convert an error to a ParleyError.
// Returns the error as ParleyError if it is one, or wraps it otherwise.
func AsParleyError(err error) *ParleyError {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*ParleyError); ok {
		return pe
	}
	return New(CodeInternal, "wrapped error", err)
}

// IsCode reports whether err is a ParleyError with the given code.
func IsCode(err error, code ErrorCode) bool {
	pe, ok := err.(*ParleyError)
	return ok && pe.Code == code
}
