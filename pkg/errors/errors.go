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

// Predefined errors for common scenarios.
var (
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict   = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrDataError covers referential/structural problems in the scheduling
	// input (unknown ids, empty pools, non-positive hour requirements).
	ErrDataError = New("DATA_ERROR", http.StatusBadRequest, "invalid scheduling data")
	// ErrInfeasible means the constraint model has no solution.
	ErrInfeasible = New("INFEASIBLE", http.StatusUnprocessableEntity, "no feasible schedule exists")
	// ErrTimeout means the time budget elapsed before a feasible or optimal
	// solution was found.
	ErrTimeout = New("TIMEOUT", http.StatusRequestTimeout, "solve exceeded its time budget")
	// ErrSolverInternal covers unexpected failures inside the constraint
	// engine itself (propagation bugs, model construction errors).
	ErrSolverInternal = New("SOLVER_INTERNAL_ERROR", http.StatusInternalServerError, "internal solver error")
)

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
