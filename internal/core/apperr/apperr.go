// Package apperr carries the error kinds the services raise and the
// transport maps onto HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindBadCredentials
	KindUnauthorized
	KindForbidden
	KindFileOperation
	KindMailDelivery
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindBadCredentials:
		return "bad_credentials"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindFileOperation:
		return "file_operation"
	case KindMailDelivery:
		return "mail_delivery"
	default:
		return "internal"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...any) error { return New(KindNotFound, format, args...) }

func Validation(format string, args ...any) error { return New(KindValidation, format, args...) }

func BadCredentials() error { return New(KindBadCredentials, "%s", Msg(MsgInvalidCredentials)) }

func Forbidden(format string, args ...any) error { return New(KindForbidden, format, args...) }

func Internal(err error, format string, args ...any) error {
	return Wrap(KindInternal, err, format, args...)
}

// KindOf reports the kind of the first *Error in err's chain.
// Errors that carry none are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}

func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
