package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios. The dashboard distinguishes
// DATA_ACCESS (the store failed) from COMPUTATION (the data's shape prevents a
// well-defined result) so callers can render "system error" vs "no data".
var (
	ErrDataAccess   = New("DATA_ACCESS", http.StatusInternalServerError, "data store query failed")
	ErrComputation  = New("COMPUTATION", http.StatusUnprocessableEntity, "data shape prevents computation")
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// DataAccess wraps a store-level failure, preserving the query context.
func DataAccess(err error, context string) *Error {
	return Wrap(err, ErrDataAccess.Code, ErrDataAccess.Status, context)
}

// Computation wraps a data-shape failure.
func Computation(context string) *Error {
	return New(ErrComputation.Code, ErrComputation.Status, context)
}

// IsDataAccess reports whether err is a store-level failure.
func IsDataAccess(err error) bool {
	e := FromError(err)
	return e != nil && e.Code == ErrDataAccess.Code
}

// IsComputation reports whether err is a data-shape failure.
func IsComputation(err error) bool {
	e := FromError(err)
	return e != nil && e.Code == ErrComputation.Code
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
