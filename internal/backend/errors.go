package backend

import "errors"

var (
	// ErrNotLoaded is returned by metadata, binding and invoke calls made
	// before a model was loaded.
	ErrNotLoaded = errors.New("backend: no model loaded")
	// ErrIndexOutOfRange is returned for tensor indices the model or the
	// binding table does not have.
	ErrIndexOutOfRange = errors.New("backend: tensor index out of range")
)

// unavailableError signals that an engine's shared runtime is missing or was
// not compiled into this build.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailable-engine error.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a missing engine.
func IsUnavailable(err error) bool {
	var u unavailableError
	return errors.As(err, &u)
}
