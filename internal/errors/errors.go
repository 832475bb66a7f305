package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeContract is an invalid or unparseable contract specification
	ErrTypeContract ErrorType = "CONTRACT"
	// ErrTypeParameter is an out-of-domain scalar input (e.g. negative n_s)
	ErrTypeParameter ErrorType = "PARAMETER"
	// ErrTypeSchema is a merge input without any recognizable price or quote column
	ErrTypeSchema ErrorType = "SCHEMA"
	// ErrTypeEmpty is a mandatory merge with both sources empty
	ErrTypeEmpty ErrorType = "EMPTY_RESULT"
	// ErrTypeParsing is malformed input data (CSV rows, timestamps)
	ErrTypeParsing ErrorType = "PARSING"
	// ErrTypeStorage is a filesystem read/write failure
	ErrTypeStorage ErrorType = "STORAGE"
	// ErrTypeConfig is invalid or missing configuration
	ErrTypeConfig ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new application error
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper constructors for the error taxonomy

// NewContractError creates an invalid-contract error
func NewContractError(message string, cause error) *AppError {
	return New(ErrTypeContract, message, cause)
}

// NewParameterError creates an invalid-parameter error
func NewParameterError(message string, cause error) *AppError {
	return New(ErrTypeParameter, message, cause)
}

// NewSchemaError creates a schema-mismatch error
func NewSchemaError(message string, cause error) *AppError {
	return New(ErrTypeSchema, message, cause)
}

// NewEmptyResultError creates an empty-result error
func NewEmptyResultError(message string) *AppError {
	return New(ErrTypeEmpty, message, nil)
}

// NewParsingError creates a parsing error
func NewParsingError(message string, cause error) *AppError {
	return New(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage error
func NewStorageError(message string, cause error) *AppError {
	return New(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return New(ErrTypeConfig, message, cause)
}

// IsType reports whether err (or anything it wraps) is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsContract reports whether err is an invalid-contract error
func IsContract(err error) bool { return IsType(err, ErrTypeContract) }

// IsParameter reports whether err is an invalid-parameter error
func IsParameter(err error) bool { return IsType(err, ErrTypeParameter) }

// IsSchema reports whether err is a schema-mismatch error
func IsSchema(err error) bool { return IsType(err, ErrTypeSchema) }

// IsEmptyResult reports whether err is an empty-result error
func IsEmptyResult(err error) bool { return IsType(err, ErrTypeEmpty) }
