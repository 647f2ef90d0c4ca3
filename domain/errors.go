package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound            ErrorKind = "not_found"
	KindInvalidArgument     ErrorKind = "invalid_argument"
	KindConstraintViolation ErrorKind = "constraint_violation"
	KindPermissionDenied    ErrorKind = "permission_denied"
	KindNetworkTimeout      ErrorKind = "network_timeout"
	KindNetworkUnavailable  ErrorKind = "network_unavailable"
	KindUnknown             ErrorKind = "unknown"
)

// Error is the only error shape the data layer raises. Raw store failures are
// classified into a kind before they reach a caller; the original error stays
// wrapped for diagnostics.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return string(e.Kind) + ": " + e.Message
	}
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same kind, so
// errors.Is(err, domain.ErrNotFound) works for every not-found failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Kind sentinels for errors.Is checks.
var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrInvalidArgument     = &Error{Kind: KindInvalidArgument}
	ErrConstraintViolation = &Error{Kind: KindConstraintViolation}
	ErrPermissionDenied    = &Error{Kind: KindPermissionDenied}
	ErrNetworkTimeout      = &Error{Kind: KindNetworkTimeout}
	ErrNetworkUnavailable  = &Error{Kind: KindNetworkUnavailable}
	ErrUnknown             = &Error{Kind: KindUnknown}
)

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return Errorf(KindNotFound, format, args...)
}

func InvalidArgumentf(format string, args ...any) *Error {
	return Errorf(KindInvalidArgument, format, args...)
}

// WrapError attaches a kind to an underlying failure. A nil err returns nil;
// an err that already carries a kind is returned unchanged.
func WrapError(kind ErrorKind, msg string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the kind, defaulting to unknown for unclassified errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
