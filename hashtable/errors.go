package hashtable

import (
	"errors"

	"github.com/Invicton-Labs/go-stackerr"
)

// ErrorCode classifies the errors returned by a Table.
type ErrorCode string

const (
	// CodeInvalidArgument is returned for a nil key, a nil or destroyed
	// table, a nil visitor, or an invalid capacity.
	CodeInvalidArgument ErrorCode = "invalid_argument"
	// CodeMissingCallback is returned by New when the hash or compare
	// function is missing. It is a kind of invalid argument.
	CodeMissingCallback ErrorCode = "missing_callback"
	// CodeAllocationError is returned when a bucket array cannot be allocated.
	CodeAllocationError ErrorCode = "allocation_error"
	// CodeKeyNotFound is returned by Delete when the key is absent.
	CodeKeyNotFound ErrorCode = "key_not_found"
)

// CodeField is the stack error field that carries the ErrorCode.
const CodeField = "hashtable_code"

func newError(code ErrorCode, fields map[string]any, format string, args ...any) stackerr.Error {
	f := map[string]any{
		CodeField: code,
	}
	for k, v := range fields {
		f[k] = v
	}
	return stackerr.Errorf(format, args...).With(f)
}

// CodeOf returns the ErrorCode carried by an error returned from this
// package, or an empty code if there is none.
func CodeOf(err error) ErrorCode {
	var serr stackerr.Error
	if err == nil || !errors.As(err, &serr) {
		return ""
	}
	if code, ok := serr.Fields()[CodeField].(ErrorCode); ok {
		return code
	}
	return ""
}

// IsInvalidArgument reports whether the error is an invalid argument,
// including a missing callback.
func IsInvalidArgument(err error) bool {
	code := CodeOf(err)
	return code == CodeInvalidArgument || code == CodeMissingCallback
}

func IsMissingCallback(err error) bool {
	return CodeOf(err) == CodeMissingCallback
}

func IsAllocationError(err error) bool {
	return CodeOf(err) == CodeAllocationError
}

func IsKeyNotFound(err error) bool {
	return CodeOf(err) == CodeKeyNotFound
}
