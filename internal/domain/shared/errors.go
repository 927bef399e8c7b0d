package shared

import (
	"fmt"
	"maps"
)

// Error codes shared by every bounded context
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeAlreadyExists        = "ALREADY_EXISTS"
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeConsistencyViolation = "CONSISTENCY_VIOLATION"
	CodeUnauthenticated      = "UNAUTHENTICATED"
	CodeTenantInactive       = "TENANT_INACTIVE"
	CodeNamespaceResolution  = "NAMESPACE_RESOLUTION"
	CodeUnknownTargetType    = "UNKNOWN_TARGET_TYPE"
	CodeDuplicateRequest     = "DUPLICATE_REQUEST"
)

// DomainError represents an expected business failure.
// Two DomainErrors match under errors.Is when their codes are equal, so callers
// can compare against the sentinels below regardless of message or details.
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error with an additional detail entry
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	maps.Copy(details, e.Details)
	details[key] = value
	return &DomainError{Code: e.Code, Message: e.Message, Details: details}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error with a formatted message
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError creates a not found error naming the missing resource
func NewNotFoundError(resource string, id any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", fmt.Sprint(id))
}

// NewInvalidTransitionError describes a rejected status change
func NewInvalidTransitionError(from, to string) *DomainError {
	return NewDomainError(CodeInvalidTransition, fmt.Sprintf("cannot transition from %s to %s", from, to)).
		WithDetail("from", from).
		WithDetail("to", to)
}

// NewConsistencyViolation reports a broken internal invariant
func NewConsistencyViolation(format string, args ...any) *DomainError {
	return NewDomainError(CodeConsistencyViolation, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrValidation           = NewDomainError(CodeValidation, "Invalid input provided")
	ErrNotFound             = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists        = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInsufficientStock    = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrInvalidTransition    = NewDomainError(CodeInvalidTransition, "Status transition not allowed")
	ErrConsistencyViolation = NewDomainError(CodeConsistencyViolation, "Internal consistency check failed")
	ErrUnauthenticated      = NewDomainError(CodeUnauthenticated, "Authentication required")
	ErrTenantInactive       = NewDomainError(CodeTenantInactive, "Tenant is not active")
	ErrNamespaceResolution  = NewDomainError(CodeNamespaceResolution, "Tenant namespace cannot be resolved")
	ErrUnknownTargetType    = NewDomainError(CodeUnknownTargetType, "Unknown approval target type")
	ErrDuplicateRequest     = NewDomainError(CodeDuplicateRequest, "Request has already been processed")
)
