// Package backend defines the contract every inference engine adapter
// implements, plus the tensor sizing and output binding helpers the adapters
// share. It is organized by concern:
//
//   - backend.go: Backend and Session interfaces, Options.
//   - tensor.go: element types and byte-size computation.
//   - bindings.go: bounded table of caller-owned I/O buffers.
//   - errors.go: sentinel errors and the unavailable-engine error type.
//
// Adapters live in subpackages (stub, onnx, tflite). Native engines are only
// compiled in with their build tag (`-tags=onnx`, `-tags=tflite`); without the
// tag each package exposes a stub whose Compiled constant is false so the
// selector skips it.
package backend
