// Package domainerrors provides coded domain errors for the claim registry.
//
// Stores and other infrastructure return sentinel errors
// (pkg/platform/sentinel); services translate those into coded errors at
// the boundary so handlers can map them onto transport status codes
// without string matching. Every failure surfaces verbatim to the caller
// with enough structured detail (claim id, caller, amount) to diagnose
// without replaying state.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure.
type Code string

const (
	CodeNotFound            Code = "not_found"
	CodeNotCreditorOrDebtor Code = "not_creditor_or_debtor"
	CodeInvalidAmount       Code = "invalid_amount"
	CodeInvalidDueDate      Code = "invalid_due_date"
	CodeInsufficientFunds   Code = "insufficient_funds"
	CodeLengthMismatch      Code = "length_mismatch"
	CodeInvalidState        Code = "invalid_state"
	CodeValidation          Code = "validation"
	CodeBadRequest          Code = "bad_request"
	CodeUnauthorized        Code = "unauthorized"
	CodeInternal            Code = "internal"
	CodeTimeout             Code = "timeout"
)

// Error is a coded domain error with optional structured details.
type Error struct {
	Code    Code
	Message string
	Details map[string]any

	cause error
}

// New constructs a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// With records a structured detail on the error and returns it for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// HasCode reports whether err (or anything it wraps) carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		if err == nil {
			return false
		}
	}
	return false
}

// CodeOf returns the outermost code on err, or CodeInternal if err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
