//go:build tflite

package tflite

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-tflite"
	"github.com/mattn/go-tflite/delegates"
	"github.com/mattn/go-tflite/delegates/xnnpack"
	"github.com/rs/zerolog"

	"neuronshim/internal/backend"
)

// Compiled reports whether TensorFlow Lite support is linked into this binary.
const Compiled = true

type tfliteBackend struct{}

// New returns the TensorFlow Lite adapter descriptor.
func New() backend.Backend { return tfliteBackend{} }

func (tfliteBackend) Name() string { return Name }

func (tfliteBackend) Create(opts backend.Options) (backend.Session, error) {
	log := opts.Logger.With().Str("backend", Name).Logger()
	s := &session{log: log, threads: opts.Threads, forceCPU: opts.ForceCPU}
	if opts.ForceCPU {
		log.Info().Msg("CPU only (force_cpu)")
	} else {
		log.Info().Msg("XNNPACK delegate preferred, CPU fallback")
	}
	return s, nil
}

type session struct {
	log      zerolog.Logger
	threads  int
	forceCPU bool

	model    *tflite.Model
	options  *tflite.InterpreterOptions
	interp   *tflite.Interpreter
	xnn      delegates.Delegater

	inputs  []backend.TensorMeta
	outputs []backend.TensorMeta
	in      backend.Bindings
	out     backend.Bindings
}

func (s *session) LoadFromFile(path string) error {
	s.log.Info().Str("path", path).Msg("loading")
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("tflite: %w", err)
	}
	s.closeInterpreter()
	m := tflite.NewModelFromFile(path)
	if m == nil {
		return fmt.Errorf("tflite: cannot parse model %s", path)
	}
	return s.open(m)
}

func (s *session) LoadFromBuffer(model []byte) error {
	s.log.Info().Int("bytes", len(model)).Msg("loading from buffer")
	s.closeInterpreter()
	// NewModel copies the image into C memory, so model may be reused.
	m := tflite.NewModel(model)
	if m == nil {
		return errors.New("tflite: cannot parse model buffer")
	}
	return s.open(m)
}

// open builds an interpreter with the XNNPACK delegate when allowed and falls
// back to plain CPU kernels if the delegated graph fails to allocate.
func (s *session) open(m *tflite.Model) error {
	s.model = m
	if !s.forceCPU {
		err := s.build(true)
		if err == nil {
			s.describe()
			return nil
		}
		s.log.Warn().Err(err).Msg("delegated interpreter failed, falling back to CPU")
	}
	if err := s.build(false); err != nil {
		s.closeInterpreter()
		return err
	}
	s.describe()
	return nil
}

func (s *session) build(delegated bool) error {
	s.releaseInterpreter()
	opts := tflite.NewInterpreterOptions()
	if s.threads > 0 {
		opts.SetNumThread(s.threads)
	}
	opts.SetErrorReporter(func(msg string, _ interface{}) {
		s.log.Debug().Str("engine", "tflite").Msg(msg)
	}, nil)
	var d delegates.Delegater
	if delegated {
		d = xnnpack.New(xnnpack.DelegateOptions{NumThreads: int32(max(s.threads, 1))})
		if d == nil {
			opts.Delete()
			return errors.New("xnnpack delegate unavailable")
		}
		opts.AddDelegate(d)
	}
	interp := tflite.NewInterpreter(s.model, opts)
	if interp == nil {
		opts.Delete()
		deleteDelegate(d)
		return errors.New("tflite: cannot create interpreter")
	}
	if status := interp.AllocateTensors(); status != tflite.OK {
		interp.Delete()
		opts.Delete()
		deleteDelegate(d)
		return fmt.Errorf("tflite: allocate tensors: status %d", status)
	}
	s.options, s.interp, s.xnn = opts, interp, d
	return nil
}

// deleteDelegate frees d. The interpreter using it must already be gone.
func deleteDelegate(d delegates.Delegater) {
	if d != nil {
		d.Delete()
	}
}

func (s *session) describe() {
	s.inputs = s.inputs[:0]
	s.outputs = s.outputs[:0]
	for i := 0; i < min(s.interp.GetInputTensorCount(), backend.MaxTensors); i++ {
		s.inputs = append(s.inputs, meta(s.interp.GetInputTensor(i)))
	}
	for i := 0; i < min(s.interp.GetOutputTensorCount(), backend.MaxTensors); i++ {
		s.outputs = append(s.outputs, meta(s.interp.GetOutputTensor(i)))
	}
	s.log.Info().Bool("xnnpack", s.xnn != nil).Int("inputs", len(s.inputs)).Int("outputs", len(s.outputs)).Msg("model ready")
}

func meta(t *tflite.Tensor) backend.TensorMeta {
	shape := make([]int64, t.NumDims())
	for i := range shape {
		shape[i] = int64(t.Dim(i))
	}
	m := backend.NewTensorMeta(t.Name(), elementType(t.Type()), shape)
	// The interpreter knows the exact allocation, which also covers types the
	// neutral enum does not model.
	if n := int(t.ByteSize()); n > 0 {
		m.Size = n
	}
	return m
}

func elementType(t tflite.TensorType) backend.ElementType {
	switch t {
	case tflite.Float32:
		return backend.Float32
	case tflite.UInt8:
		return backend.Uint8
	case tflite.Int8:
		return backend.Int8
	case tflite.Int16:
		return backend.Int16
	case tflite.Int32:
		return backend.Int32
	case tflite.Int64:
		return backend.Int64
	case tflite.Bool:
		return backend.Bool
	default:
		return backend.Unknown
	}
}

func (s *session) InputCount() (int, error)  { return len(s.inputs), nil }
func (s *session) OutputCount() (int, error) { return len(s.outputs), nil }

func (s *session) InputSize(index int) (int, error) {
	if index < 0 || index >= len(s.inputs) {
		return 0, backend.ErrIndexOutOfRange
	}
	return s.inputs[index].Size, nil
}

func (s *session) OutputSize(index int) (int, error) {
	if index < 0 || index >= len(s.outputs) {
		return 0, backend.ErrIndexOutOfRange
	}
	return s.outputs[index].Size, nil
}

func (s *session) SetInput(index int, buf []byte) error  { return s.in.Bind(index, buf) }
func (s *session) SetOutput(index int, buf []byte) error { return s.out.Bind(index, buf) }

// Invoke copies bound inputs into the interpreter, runs it and copies outputs
// back. The C API copies exact tensor sizes, so mismatched caller buffers go
// through a scratch buffer.
func (s *session) Invoke() error {
	if s.interp == nil {
		return backend.ErrNotLoaded
	}
	for i, m := range s.inputs {
		buf, ok := s.in.Get(i)
		if !ok {
			return fmt.Errorf("tflite: input %d (%s) not bound", i, m.Name)
		}
		data := buf
		if len(data) != m.Size {
			data = make([]byte, m.Size)
			copy(data, buf)
		}
		if status := s.interp.GetInputTensor(i).CopyFromBuffer(data); status != tflite.OK {
			return fmt.Errorf("tflite: copy input %d: status %d", i, status)
		}
	}
	if status := s.interp.Invoke(); status != tflite.OK {
		return fmt.Errorf("tflite: invoke: status %d", status)
	}
	for i, m := range s.outputs {
		if _, ok := s.out.Get(i); !ok {
			continue
		}
		scratch := make([]byte, m.Size)
		if status := s.interp.GetOutputTensor(i).CopyToBuffer(scratch); status != tflite.OK {
			return fmt.Errorf("tflite: copy output %d: status %d", i, status)
		}
		s.out.CopyOut(i, scratch)
	}
	return nil
}

func (s *session) releaseInterpreter() {
	if s.interp != nil {
		s.interp.Delete()
		s.interp = nil
	}
	if s.options != nil {
		s.options.Delete()
		s.options = nil
	}
	deleteDelegate(s.xnn)
	s.xnn = nil
}

func (s *session) closeInterpreter() {
	s.releaseInterpreter()
	if s.model != nil {
		s.model.Delete()
		s.model = nil
	}
	s.inputs, s.outputs = nil, nil
}

func (s *session) Close() error {
	s.closeInterpreter()
	s.in.Reset()
	s.out.Reset()
	return nil
}
