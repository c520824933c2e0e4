// Package onnx adapts ONNX Runtime to the backend contract. The engine is only
// linked with `-tags=onnx`; see onnx_stub.go for the default build.
//
// Execution providers are tried in priority order (TensorRT, CUDA, CoreML,
// DirectML) and CPU is always available as the final fallback, so the same
// binary runs on NVIDIA, Apple and CPU-only hosts.
package onnx

import "runtime"

// Name is the configuration name of this adapter.
const Name = "onnx"

// Library is the shared runtime the selector probes for.
func Library() string {
	switch runtime.GOOS {
	case "darwin":
		return "libonnxruntime.dylib"
	case "windows":
		return "onnxruntime.dll"
	default:
		return "libonnxruntime.so"
	}
}
