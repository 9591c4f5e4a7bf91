package model

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a rejected request.
type ErrorCode string

const (
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrConflict   ErrorCode = "CONFLICT"
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
)

// APIError is how the simulator boundary rejects input. The HTTP layer sends it
// unchanged inside the response envelope.
type APIError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details[0])
}

// FieldError names one offending input field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	if f.Field == "" {
		return f.Message
	}
	return f.Field + " " + f.Message
}

func NewValidationError(msg string, details ...FieldError) *APIError {
	return &APIError{Code: ErrValidation, Message: msg, Details: details}
}

func NewNotFoundError(resource, id string) *APIError {
	return &APIError{Code: ErrNotFound, Message: fmt.Sprintf("%s '%s' not found", resource, id)}
}

func NewConflictError(msg string) *APIError {
	return &APIError{Code: ErrConflict, Message: msg}
}

func NewInternalError(msg string) *APIError {
	return &APIError{Code: ErrInternal, Message: msg}
}

// CodeOf returns the code of the first APIError in err's chain, or "" if
// there is none.
func CodeOf(err error) ErrorCode {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// InvalidTransitionError rejects a run-state change the state machine does
// not allow, such as resuming a completed run.
type InvalidTransitionError struct {
	From RunState
	To   RunState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("simulation cannot move from %s to %s", e.From, e.To)
}
