//go:build !tflite

package tflite

import "neuronshim/internal/backend"

// Compiled reports whether TensorFlow Lite support is linked into this binary.
const Compiled = false

type tfliteBackend struct{}

// New returns a descriptor whose sessions cannot be created in this build.
func New() backend.Backend { return tfliteBackend{} }

func (tfliteBackend) Name() string { return Name }

func (tfliteBackend) Create(backend.Options) (backend.Session, error) {
	return nil, backend.ErrUnavailable("tflite support not built (missing 'tflite' build tag)")
}
