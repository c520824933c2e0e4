//go:build !onnx

package onnx

import "neuronshim/internal/backend"

// Compiled reports whether ONNX Runtime support is linked into this binary.
const Compiled = false

type onnxBackend struct{}

// New returns a descriptor whose sessions cannot be created in this build.
func New() backend.Backend { return onnxBackend{} }

func (onnxBackend) Name() string { return Name }

func (onnxBackend) Create(backend.Options) (backend.Session, error) {
	return nil, backend.ErrUnavailable("onnx support not built (missing 'onnx' build tag)")
}
