package backend

import "github.com/rs/zerolog"

// Backend is an immutable adapter descriptor. One Backend is selected per
// process; it creates one Session per runtime handle.
type Backend interface {
	// Name identifies the adapter in configuration (onnx, tflite, stub).
	Name() string
	// Create prepares an adapter-private context. It fails only when no
	// execution path at all is usable; missing acceleration is not an error.
	Create(opts Options) (Session, error)
}

// Options carries the process configuration an adapter may honor.
type Options struct {
	Threads  int
	ForceCPU bool
	Logger   zerolog.Logger
}

// Session is the per-handle adapter context. Sessions are not safe for
// concurrent use; distinct sessions are independent.
//
// Buffers passed to SetInput and SetOutput remain owned by the caller and must
// stay valid until the next Invoke returns.
type Session interface {
	LoadFromFile(path string) error
	LoadFromBuffer(model []byte) error

	InputCount() (int, error)
	OutputCount() (int, error)
	InputSize(index int) (int, error)
	OutputSize(index int) (int, error)

	SetInput(index int, buf []byte) error
	SetOutput(index int, buf []byte) error

	// Invoke runs inference and copies at most min(len(buf), tensor size)
	// bytes into every bound output buffer.
	Invoke() error

	// Close releases engine resources. The session must not be used afterwards.
	Close() error
}
