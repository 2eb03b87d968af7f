package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable error codes returned to API clients.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeValidation         = "VALIDATION"
	CodeDuplicateAttendance = "DUPLICATE_ATTENDANCE"
	CodeNothingToReverse   = "NOTHING_TO_REVERSE"
	CodePersistence        = "PERSISTENCE"
	CodeConsistency        = "CONSISTENCY"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, fmt.Errorf(format, args...))
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, CodeForbidden, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusUnprocessableEntity, CodeValidation, fmt.Errorf(format, args...))
}

// DuplicateAttendance reports a second confirmation for the same student
// within one open round.
func DuplicateAttendance(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeDuplicateAttendance, fmt.Errorf(format, args...))
}

// NothingToReverse reports a reversal against an empty payment ledger.
func NothingToReverse(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeNothingToReverse, fmt.Errorf(format, args...))
}

func Persistence(err error) *Error {
	return New(http.StatusInternalServerError, CodePersistence, err)
}

// Consistency reports a broken storage invariant, e.g. a speculative absence
// that should exist but does not.
func Consistency(format string, args ...interface{}) *Error {
	return New(http.StatusInternalServerError, CodeConsistency, fmt.Errorf(format, args...))
}

// From extracts the typed API error, or wraps err as a persistence failure
// when no typed error is present.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Persistence(err)
}
