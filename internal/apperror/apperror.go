// Package apperror carries the error taxonomy shared by every feature service.
// Handlers translate the Code into an HTTP status; the wrapped cause is only logged.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation        Code = "validation_error"
	CodeNotFound          Code = "not_found"
	CodeConflict          Code = "conflict"
	CodeForbidden         Code = "forbidden"
	CodeUnauthorized      Code = "unauthorized"
	CodeInvalidTransition Code = "invalid_transition"
	CodeInternal          Code = "internal_error"
)

type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Validation builds a validation error with per-field detail.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

func InvalidTransition(message string) *Error {
	return New(CodeInvalidTransition, message)
}

func Internal(err error, message string) *Error {
	return Wrap(err, CodeInternal, message)
}

// CodeOf returns the code of the first *Error in the chain, or CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeInvalidTransition:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
