// Package clierr classifies CLI failures so the entrypoint can pick an exit
// code and a hint without parsing message text.
package clierr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindConfigMissing        Kind = "config_missing"
	KindConfigCorrupt        Kind = "config_corrupt"
	KindIO                   Kind = "io"
	KindNetwork              Kind = "network"
	KindAPI                  Kind = "api"
	KindVerificationRequired Kind = "verification_required"
	KindArgument             Kind = "argument"
	KindUnknown              Kind = "unknown"
)

// Exit codes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitUsage        = 2
	ExitVerification = 3
)

// Error is a kinded error wrapping an optional cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	switch {
	case e.msg == "" && e.err != nil:
		return e.err.Error()
	case e.err != nil:
		return e.msg + ": " + e.err.Error()
	default:
		return e.msg
	}
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind to err. A nil err yields nil.
func Wrap(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), err: err}
}

func ConfigMissing(format string, args ...any) *Error {
	return New(KindConfigMissing, format, args...)
}

func ConfigCorrupt(format string, args ...any) *Error {
	return New(KindConfigCorrupt, format, args...)
}

func Argument(format string, args ...any) *Error {
	return New(KindArgument, format, args...)
}

type kinded interface {
	Kind() Kind
}

// KindOf returns the kind of the first kinded error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch KindOf(err) {
	case "":
		return ExitOK
	case KindArgument:
		return ExitUsage
	case KindVerificationRequired:
		return ExitVerification
	default:
		return ExitFailure
	}
}
