// Package apperror defines the structured error type used across the
// service. Every business error carries a stable machine-readable code
// plus details; the HTTP layer maps it to a response body verbatim.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable error codes clients may branch on.
const (
	CodeInternal = "INTERNAL_ERROR"

	CodeValidation = "VALIDATION_ERROR"

	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeQuantityExceeded       = "QUANTITY_EXCEEDED"
	CodeDocumentLocked         = "DOCUMENT_LOCKED"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"

	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	CodeNotFound = "NOT_FOUND"

	CodeConflict  = "CONFLICT"
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the error type all layers agree on.
type AppError struct {
	// Code is a stable machine-readable identifier.
	Code string `json:"code"`

	// Message is safe to show to clients.
	Message string `json:"message"`

	// Details carries structured context such as field names or
	// offending quantities.
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the status the HTTP layer should respond with.
	HTTPStatus int `json:"-"`

	// Err is the underlying cause. Logged, never serialized.
	Err error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches one key-value pair to the error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause records the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func newError(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NewValidation reports invalid input, responded with 400.
func NewValidation(message string) *AppError {
	return newError(CodeValidation, message, http.StatusBadRequest)
}

// NewNotFound reports a missing entity, responded with 404.
func NewNotFound(entity string, id any) *AppError {
	return newError(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound).
		WithDetail("entity", entity).
		WithDetail("id", id)
}

// NewBusinessRule reports a domain rule violation under a caller-chosen
// code, responded with 422.
func NewBusinessRule(code, message string) *AppError {
	return newError(code, message, http.StatusUnprocessableEntity)
}

// NewInvalidTransition reports a status action not allowed from the
// document's current status.
func NewInvalidTransition(docType, current, action string) *AppError {
	return newError(
		CodeInvalidTransition,
		fmt.Sprintf("action %q is not allowed from status %q", action, current),
		http.StatusUnprocessableEntity,
	).
		WithDetail("document_type", docType).
		WithDetail("status", current).
		WithDetail("action", action)
}

// NewQuantityExceeded reports a claim larger than what remains on the
// source line.
func NewQuantityExceeded(itemID string, requested, remaining int64) *AppError {
	return newError(
		CodeQuantityExceeded,
		"Requested quantity exceeds the remaining quantity",
		http.StatusUnprocessableEntity,
	).
		WithDetail("item_id", itemID).
		WithDetail("requested", requested).
		WithDetail("remaining", remaining)
}

// NewDocumentLocked reports an edit or delete attempt on a document
// whose status forbids it.
func NewDocumentLocked(docType, status string) *AppError {
	return newError(
		CodeDocumentLocked,
		fmt.Sprintf("Document in status %q cannot be modified or deleted", status),
		http.StatusUnprocessableEntity,
	).
		WithDetail("document_type", docType).
		WithDetail("status", status)
}

// NewConcurrentModification reports an optimistic locking failure.
func NewConcurrentModification(entity string, id any) *AppError {
	return newError(
		CodeConcurrentModification,
		"Record was modified by another user. Please refresh and try again.",
		http.StatusConflict,
	).
		WithDetail("entity", entity).
		WithDetail("id", id)
}

// NewInternal wraps an unexpected error. The cause is kept for logs;
// clients only see a generic message.
func NewInternal(err error) *AppError {
	e := newError(CodeInternal, "Internal server error", http.StatusInternalServerError)
	e.Err = err
	return e
}

// NewUnauthorized reports a missing or failed authentication, 401.
func NewUnauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message, http.StatusUnauthorized)
}

// NewForbidden reports insufficient permissions, 403.
func NewForbidden(message string) *AppError {
	return newError(CodeForbidden, message, http.StatusForbidden)
}

// NewConflict reports a state conflict, 409.
func NewConflict(message string) *AppError {
	return newError(CodeConflict, message, http.StatusConflict)
}

// NewDuplicate reports a unique constraint violation, 409.
func NewDuplicate(entity, field, value string) *AppError {
	return newError(
		CodeDuplicate,
		fmt.Sprintf("%s with this %s already exists", entity, field),
		http.StatusConflict,
	).
		WithDetail("entity", entity).
		WithDetail("field", field).
		WithDetail("value", value)
}

// AsAppError extracts an AppError from the error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsAppError reports whether the chain contains an AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

func hasCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsInvalidTransition reports whether err is a rejected status action.
func IsInvalidTransition(err error) bool {
	return hasCode(err, CodeInvalidTransition)
}
