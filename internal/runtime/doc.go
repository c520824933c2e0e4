// Package runtime dispatches Neuron runtime calls to the selected inference
// adapter. It is structured into small files by concern:
//
//   - shim.go: Shim, the process-wide context (configuration, backend, suffix),
//     its constructor and the once-per-process Default.
//   - runtime.go: Runtime, the per-handle object, and every handle operation.
//   - qos.go: QoS calls, accepted and ignored.
//   - errors.go: error kinds and Code, which maps them onto vendor error codes.
//   - handles.go: Handles, the id table behind the opaque handles of the C ABI.
//   - metrics.go: Prometheus call counters, inference latency, live handles.
//
// A Runtime is not safe for concurrent use; distinct Runtimes are independent
// and may be driven from different goroutines.
package runtime
