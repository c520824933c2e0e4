// Command libneuronrt builds the drop-in replacement for the vendor Neuron
// runtime library:
//
//	go build -buildmode=c-shared -o libneuronrt.so ./cmd/libneuronrt
//	go build -buildmode=c-shared -tags=onnx,tflite -o libneuronrt.so ./cmd/libneuronrt
//
// Install it in place of the vendor library, or point LD_LIBRARY_PATH or
// LD_PRELOAD at it. Every exported NeuronRuntime_* symbol forwards to
// internal/runtime; the first call resolves configuration and selects a backend.
package main

func main() {}
