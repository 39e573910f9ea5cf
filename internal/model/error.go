package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeValidation       = "VALIDATION_FAILED"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeCategoryNotFound = "CATEGORY_NOT_FOUND"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrCategoryNotFound = NewDomainError(ErrCodeCategoryNotFound, "Category not found")
	ErrProductNotFound  = NewDomainError(ErrCodeProductNotFound, "Product not found")
)

// FieldError is a single field-scoped validation failure, echoed back to
// the caller so the offending field can be corrected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the ordered field errors produced by the
// validation pipeline. It travels as data across layer boundaries and is
// never raised as a panic.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// ConflictError reports a uniqueness violation detected at write time,
// after validation passed. Field names the offending field so callers
// can redisplay it as a field error.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError creates a conflict error for the given field.
func NewConflictError(field string) *ConflictError {
	return &ConflictError{
		Field:   field,
		Message: fmt.Sprintf("A record with this %s already exists", field),
	}
}
