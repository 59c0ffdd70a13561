package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Query construction errors
	ErrCodeUnknownColumn   ErrorCode = "UNKNOWN_COLUMN"
	ErrCodeNotRegistered   ErrorCode = "MODEL_NOT_REGISTERED"
	ErrCodeNoJoinCondition ErrorCode = "NO_JOIN_CONDITION"

	// SQL rendering errors
	ErrCodeUnsupportedExpr  ErrorCode = "UNSUPPORTED_EXPRESSION"
	ErrCodeUnsupportedQuery ErrorCode = "UNSUPPORTED_QUERY"

	// Execution errors
	ErrCodeExecFailed ErrorCode = "EXEC_FAILED"
	ErrCodeTxState    ErrorCode = "TX_INVALID_STATE"
	ErrCodeTxOrder    ErrorCode = "TX_RELEASE_ORDER"

	// Relation errors
	ErrCodeNoRelation ErrorCode = "NO_RELATION"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// QuillError represents a structured error with context
type QuillError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *QuillError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *QuillError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *QuillError) WithDetail(key string, value interface{}) *QuillError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *QuillError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new QuillError
func New(code ErrorCode, message string) *QuillError {
	return &QuillError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a QuillError
func Wrap(err error, code ErrorCode, message string) *QuillError {
	return &QuillError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific QuillError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	quillErr, ok := err.(*QuillError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return quillErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	quillErr, ok := err.(*QuillError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return quillErr.Code
}
