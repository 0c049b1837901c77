// Package domainerrors carries coded errors from services to the chat layer.
// Stores never build these; they return sentinel facts that services translate.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure so callers can pick a reply without string matching.
type Code string

const (
	CodeValidation       Code = "validation_error"
	CodeBadRequest       Code = "bad_request"
	CodeNotFound         Code = "not_found"
	CodeUnauthorized     Code = "unauthorized"
	CodeForbidden        Code = "forbidden"
	CodeConflict         Code = "conflict"
	CodeDuplicateCode    Code = "duplicate_code"
	CodeDuplicateAdmin   Code = "duplicate_admin"
	CodeDuplicateDonor   Code = "duplicate_donor"
	CodeAlreadyValidated Code = "already_validated"
	CodeWrongCampaign    Code = "wrong_campaign"
	CodeTimeout          Code = "timeout"
	CodeInternal         Code = "internal_error"
)

// Error is a domain error with a stable code and a human readable message.
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

// New creates a domain error without an underlying cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap annotates err with a code. Returns nil when err is nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the outermost domain error in the chain, or
// CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost domain error in err has the given code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == code
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// IsConflict reports whether the code belongs to the conflict family.
func (c Code) IsConflict() bool {
	switch c {
	case CodeConflict, CodeDuplicateCode, CodeDuplicateAdmin, CodeDuplicateDonor, CodeAlreadyValidated:
		return true
	}
	return false
}

// HTTPStatus maps a code to the status the webhook answers with.
func (c Code) HTTPStatus() int {
	switch {
	case c == CodeValidation, c == CodeBadRequest:
		return http.StatusBadRequest
	case c == CodeUnauthorized:
		return http.StatusUnauthorized
	case c == CodeForbidden, c == CodeWrongCampaign:
		return http.StatusForbidden
	case c == CodeNotFound:
		return http.StatusNotFound
	case c.IsConflict():
		return http.StatusConflict
	case c == CodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
