// Package apperror holds the failure variant every request pipeline returns and
// the single mapping from failures to HTTP statuses and client-safe bodies.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindDomain
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDomain:
		return "domain"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const (
	CodeBadParam = "BAD_PARAM"
	CodeExists   = "EXISTS"
	CodeNotFound = "NOT_FOUND"
	CodeInternal = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: CodeBadParam, Message: message}
}

func Domain(code string, message string) *Error {
	return &Error{Kind: KindDomain, Code: code, Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: err.Error(), Err: err}
}

// codedError is implemented by collaborator errors that carry a raw error code.
type codedError interface {
	error
	ErrorCode() string
}

// Normalize turns any error into the failure variant. Errors exposing an
// ErrorCode become domain failures; everything else is internal.
func Normalize(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var coded codedError
	if errors.As(err, &coded) {
		return &Error{Kind: KindDomain, Code: coded.ErrorCode(), Message: coded.Error(), Err: err}
	}

	return Internal(err)
}
