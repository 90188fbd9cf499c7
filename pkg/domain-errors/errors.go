// Package domainerrors carries the caller-visible error taxonomy. Services
// translate infrastructure facts (pkg/platform/sentinel) into these codes so
// transports can map them to responses without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	CodeBadRequest Code = "bad_request"
	// CodeValidation marks a business validation failure, such as a logical
	// reference proven absent on the owning service.
	CodeValidation Code = "validation_error"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	// CodeUnavailable marks a dependency that could not answer. It is never
	// the same fault as CodeValidation.
	CodeUnavailable Code = "service_unavailable"
	CodeTimeout     Code = "timeout"
	// CodeContractViolation marks a programming error in how a component was
	// called. It must abort the operation and is never downgraded.
	CodeContractViolation Code = "contract_violation"
	CodeInternal          Code = "internal_error"
)

// Error is a coded domain error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in err's chain is a domain error with code.
func HasCode(err error, code Code) bool {
	var de *Error
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// CodeOf returns the code of the outermost domain error, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
