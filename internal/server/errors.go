package server

import "fmt"

// ErrorCode classifies MCP tool errors for structured error handling
type ErrorCode string

const (
	// ErrInvalidInput indicates invalid or malformed input parameters
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrNoData indicates no health data exists for the requested range
	ErrNoData ErrorCode = "NO_DATA"
	// ErrUpstream indicates an upstream API call failed
	ErrUpstream ErrorCode = "UPSTREAM_ERROR"
	// ErrInternalError indicates an unexpected internal error
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
)

// ToolError represents a structured tool error with code, message, and optional details
type ToolError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *ToolError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidInputError creates an error for invalid input parameters
func NewInvalidInputError(msg string) *ToolError {
	return &ToolError{Code: ErrInvalidInput, Message: msg}
}

// NewInvalidInputErrorWithDetails creates an error for invalid input with additional details
func NewInvalidInputErrorWithDetails(msg, details string) *ToolError {
	return &ToolError{Code: ErrInvalidInput, Message: msg, Details: details}
}

// NewNoDataError creates an error for a range with no export files
func NewNoDataError(rangeDesc string) *ToolError {
	return &ToolError{Code: ErrNoData, Message: fmt.Sprintf("no health data for %s", rangeDesc)}
}

// NewUpstreamError creates an error for upstream API failures
func NewUpstreamError(service string, err error) *ToolError {
	return &ToolError{
		Code:    ErrUpstream,
		Message: fmt.Sprintf("%s request failed", service),
		Details: err.Error(),
	}
}

// NewInternalError creates an error for unexpected internal failures
func NewInternalError(msg string) *ToolError {
	return &ToolError{Code: ErrInternalError, Message: msg}
}

// NewInternalErrorWithCause creates an internal error wrapping another error
func NewInternalErrorWithCause(msg string, err error) *ToolError {
	return &ToolError{
		Code:    ErrInternalError,
		Message: msg,
		Details: err.Error(),
	}
}
