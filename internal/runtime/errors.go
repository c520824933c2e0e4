package runtime

import (
	"errors"
	"fmt"

	"neuronshim/internal/resolver"
	"neuronshim/pkg/types"
)

// unexpectedNullError signals a nil handle, a released handle or a missing
// required argument.
type unexpectedNullError struct{ what string }

func (e unexpectedNullError) Error() string { return "unexpected null: " + e.what }

// ErrUnexpectedNull constructs an unexpectedNullError naming the missing value.
func ErrUnexpectedNull(what string) error { return unexpectedNullError{what: what} }

// IsUnexpectedNull reports whether err indicates a missing handle or argument.
func IsUnexpectedNull(err error) bool {
	var e unexpectedNullError
	return errors.As(err, &e)
}

// IsBadData reports whether err indicates a model that could not be resolved.
func IsBadData(err error) bool { return resolver.IsNotFound(err) }

// opFailedError wraps an adapter failure.
type opFailedError struct {
	op  string
	err error
}

func (e opFailedError) Error() string { return fmt.Sprintf("%s failed: %v", e.op, e.err) }
func (e opFailedError) Unwrap() error { return e.err }

func opFailed(op string, err error) error {
	if err == nil {
		return nil
	}
	return opFailedError{op: op, err: err}
}

// IsOpFailed reports whether err is an adapter failure.
func IsOpFailed(err error) bool {
	var e opFailedError
	return errors.As(err, &e)
}

// Code maps an error returned by this package onto the vendor error code.
// Unclassified errors are reported as OpFailed.
func Code(err error) types.ErrorCode {
	switch {
	case err == nil:
		return types.NoError
	case IsUnexpectedNull(err):
		return types.UnexpectedNull
	case IsBadData(err):
		return types.BadData
	default:
		return types.OpFailed
	}
}
