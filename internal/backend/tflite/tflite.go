// Package tflite adapts the TensorFlow Lite C API to the backend contract.
// The engine is only linked with `-tags=tflite`; see tflite_stub.go for the
// default build. When available the XNNPACK delegate accelerates CPU kernels.
package tflite

import "runtime"

// Name is the configuration name of this adapter.
const Name = "tflite"

// Library is the shared runtime the selector probes for.
func Library() string {
	switch runtime.GOOS {
	case "darwin":
		return "libtensorflowlite_c.dylib"
	case "windows":
		return "tensorflowlite_c.dll"
	default:
		return "libtensorflowlite_c.so"
	}
}
