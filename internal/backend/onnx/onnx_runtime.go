//go:build onnx

package onnx

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/rs/zerolog"
	ort "github.com/yalue/onnxruntime_go"

	"neuronshim/internal/backend"
)

// Compiled reports whether ONNX Runtime support is linked into this binary.
const Compiled = true

var (
	envOnce sync.Once
	envErr  error
)

// initEnvironment loads the shared runtime once per process. The ORT
// environment is never torn down; sessions come and go underneath it.
func initEnvironment() error {
	envOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		ort.SetSharedLibraryPath(Library())
		envErr = ort.InitializeEnvironment()
	})
	return envErr
}

type onnxBackend struct{}

// New returns the ONNX Runtime adapter descriptor.
func New() backend.Backend { return onnxBackend{} }

func (onnxBackend) Name() string { return Name }

func (onnxBackend) Create(opts backend.Options) (backend.Session, error) {
	if err := initEnvironment(); err != nil {
		return nil, backend.ErrUnavailable(fmt.Sprintf("onnxruntime: %v", err))
	}
	log := opts.Logger.With().Str("backend", Name).Logger()
	cpu, err := newSessionOptions(opts.Threads)
	if err != nil {
		return nil, fmt.Errorf("onnx: session options: %w", err)
	}
	s := &session{log: log, cpu: cpu}
	if !opts.ForceCPU {
		s.accel, s.providers = acceleratedOptions(opts.Threads, log)
	}
	log.Info().Strs("providers", append(append([]string(nil), s.providers...), "CPU")).Msg("execution providers")
	return s, nil
}

func newSessionOptions(threads int) (*ort.SessionOptions, error) {
	o, err := ort.NewSessionOptions()
	if err != nil {
		return nil, err
	}
	if threads > 0 {
		if err := o.SetIntraOpNumThreads(threads); err != nil {
			_ = o.Destroy()
			return nil, err
		}
	}
	return o, nil
}

type provider struct {
	name     string
	register func(*ort.SessionOptions) error
}

// providers in priority order, most specialized hardware first.
var providers = []provider{
	{"TensorRT", func(o *ort.SessionOptions) error {
		trt, err := ort.NewTensorRTProviderOptions()
		if err != nil {
			return err
		}
		defer trt.Destroy()
		return o.AppendExecutionProviderTensorRT(trt)
	}},
	{"CUDA", func(o *ort.SessionOptions) error {
		cuda, err := ort.NewCUDAProviderOptions()
		if err != nil {
			return err
		}
		defer cuda.Destroy()
		return o.AppendExecutionProviderCUDA(cuda)
	}},
	{"CoreML", func(o *ort.SessionOptions) error { return o.AppendExecutionProviderCoreML(0) }},
	{"DirectML", func(o *ort.SessionOptions) error { return o.AppendExecutionProviderDirectML(0) }},
}

// acceleratedOptions registers every provider the runtime accepts. Providers
// that fail are skipped silently. Returns nil options if none registered.
func acceleratedOptions(threads int, log zerolog.Logger) (*ort.SessionOptions, []string) {
	o, err := newSessionOptions(threads)
	if err != nil {
		log.Debug().Err(err).Msg("accelerated session options unavailable")
		return nil, nil
	}
	var names []string
	for _, p := range providers {
		if err := p.register(o); err != nil {
			log.Debug().Err(err).Str("provider", p.name).Msg("execution provider unavailable")
			continue
		}
		log.Info().Str("provider", p.name).Msg("execution provider registered")
		names = append(names, p.name)
	}
	if len(names) == 0 {
		_ = o.Destroy()
		return nil, nil
	}
	return o, names
}

type tensor struct {
	backend.TensorMeta
	dtype ort.TensorElementDataType
}

type session struct {
	log       zerolog.Logger
	cpu       *ort.SessionOptions
	accel     *ort.SessionOptions
	providers []string

	sess    *ort.DynamicAdvancedSession
	inputs  []tensor
	outputs []tensor
	in      backend.Bindings
	out     backend.Bindings
}

func (s *session) LoadFromFile(path string) error {
	s.log.Info().Str("path", path).Msg("loading")
	ins, outs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return fmt.Errorf("onnx: inspect %s: %w", path, err)
	}
	return s.open(ins, outs, func(o *ort.SessionOptions, in, out []string) (*ort.DynamicAdvancedSession, error) {
		return ort.NewDynamicAdvancedSession(path, in, out, o)
	})
}

func (s *session) LoadFromBuffer(model []byte) error {
	s.log.Info().Int("bytes", len(model)).Msg("loading from buffer")
	ins, outs, err := ort.GetInputOutputInfoWithONNXData(model)
	if err != nil {
		return fmt.Errorf("onnx: inspect buffer: %w", err)
	}
	return s.open(ins, outs, func(o *ort.SessionOptions, in, out []string) (*ort.DynamicAdvancedSession, error) {
		return ort.NewDynamicAdvancedSessionWithONNXData(model, in, out, o)
	})
}

type sessionFactory func(o *ort.SessionOptions, in, out []string) (*ort.DynamicAdvancedSession, error)

// open builds the session with accelerated providers first and retries on CPU
// when the providers cannot serve this model or host.
func (s *session) open(ins, outs []ort.InputOutputInfo, newSession sessionFactory) error {
	s.closeSession()
	inputs, outputs := describe(ins), describe(outs)
	inNames, outNames := names(inputs), names(outputs)

	var sess *ort.DynamicAdvancedSession
	var err error
	if s.accel != nil {
		sess, err = newSession(s.accel, inNames, outNames)
		if err != nil {
			s.log.Warn().Err(err).Strs("providers", s.providers).Msg("accelerated session failed, falling back to CPU")
		}
	}
	if sess == nil {
		sess, err = newSession(s.cpu, inNames, outNames)
		if err != nil {
			return fmt.Errorf("onnx: create session: %w", err)
		}
	}
	s.sess, s.inputs, s.outputs = sess, inputs, outputs
	for i, t := range inputs {
		s.log.Info().Int("index", i).Str("name", t.Name).Int("bytes", t.Size).Msg("input")
	}
	for i, t := range outputs {
		s.log.Info().Int("index", i).Str("name", t.Name).Int("bytes", t.Size).Msg("output")
	}
	return nil
}

func describe(infos []ort.InputOutputInfo) []tensor {
	if len(infos) > backend.MaxTensors {
		infos = infos[:backend.MaxTensors]
	}
	out := make([]tensor, 0, len(infos))
	for _, info := range infos {
		shape := append([]int64(nil), info.Dimensions...)
		out = append(out, tensor{
			TensorMeta: backend.NewTensorMeta(info.Name, elementType(info.DataType), shape),
			dtype:      info.DataType,
		})
	}
	return out
}

func names(ts []tensor) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func elementType(t ort.TensorElementDataType) backend.ElementType {
	switch t {
	case ort.TensorElementDataTypeFloat:
		return backend.Float32
	case ort.TensorElementDataTypeUint8:
		return backend.Uint8
	case ort.TensorElementDataTypeInt8:
		return backend.Int8
	case ort.TensorElementDataTypeUint16:
		return backend.Uint16
	case ort.TensorElementDataTypeInt16:
		return backend.Int16
	case ort.TensorElementDataTypeInt32:
		return backend.Int32
	case ort.TensorElementDataTypeInt64:
		return backend.Int64
	case ort.TensorElementDataTypeFloat16:
		return backend.Float16
	case ort.TensorElementDataTypeDouble:
		return backend.Float64
	case ort.TensorElementDataTypeBool:
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

func (s *session) Invoke() error {
	if s.sess == nil {
		return backend.ErrNotLoaded
	}
	inputs := make([]ort.Value, len(s.inputs))
	outputs := make([]ort.Value, len(s.outputs))
	defer destroyValues(inputs)
	defer destroyValues(outputs)

	for i, t := range s.inputs {
		buf, ok := s.in.Get(i)
		if !ok {
			return fmt.Errorf("onnx: input %d (%s) not bound", i, t.Name)
		}
		data := buf
		if len(data) != t.Size {
			data = make([]byte, t.Size)
			copy(data, buf)
		}
		v, err := ort.NewCustomDataTensor(ort.NewShape(backend.SizingShape(t.Shape)...), data, t.dtype)
		if err != nil {
			return fmt.Errorf("onnx: input %d tensor: %w", i, err)
		}
		inputs[i] = v
	}

	// Static outputs are preallocated; dynamic ones are left nil for the
	// runtime to allocate once the real shape is known.
	scratch := make([][]byte, len(s.outputs))
	for i, t := range s.outputs {
		if !static(t.Shape) {
			continue
		}
		scratch[i] = make([]byte, t.Size)
		v, err := ort.NewCustomDataTensor(ort.NewShape(t.Shape...), scratch[i], t.dtype)
		if err != nil {
			return fmt.Errorf("onnx: output %d tensor: %w", i, err)
		}
		outputs[i] = v
	}

	if err := s.sess.Run(inputs, outputs); err != nil {
		return fmt.Errorf("onnx: run: %w", err)
	}
	for i := range s.outputs {
		data := scratch[i]
		if data == nil {
			data = valueBytes(outputs[i])
		}
		s.out.CopyOut(i, data)
	}
	return nil
}

func static(shape []int64) bool {
	for _, d := range shape {
		if d <= 0 {
			return false
		}
	}
	return true
}

// valueBytes views a runtime-allocated output tensor as raw bytes.
func valueBytes(v ort.Value) []byte {
	switch t := v.(type) {
	case *ort.Tensor[float32]:
		return rawBytes(t.GetData())
	case *ort.Tensor[float64]:
		return rawBytes(t.GetData())
	case *ort.Tensor[uint8]:
		return t.GetData()
	case *ort.Tensor[int8]:
		return rawBytes(t.GetData())
	case *ort.Tensor[int16]:
		return rawBytes(t.GetData())
	case *ort.Tensor[uint16]:
		return rawBytes(t.GetData())
	case *ort.Tensor[int32]:
		return rawBytes(t.GetData())
	case *ort.Tensor[int64]:
		return rawBytes(t.GetData())
	case *ort.CustomDataTensor:
		return t.GetData()
	default:
		return nil
	}
}

func rawBytes[T any](d []T) []byte {
	if len(d) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&d[0])), len(d)*int(unsafe.Sizeof(zero)))
}

func destroyValues(vs []ort.Value) {
	for _, v := range vs {
		if v != nil {
			_ = v.Destroy()
		}
	}
}

func (s *session) closeSession() {
	if s.sess != nil {
		_ = s.sess.Destroy()
		s.sess = nil
	}
	s.inputs, s.outputs = nil, nil
}

func (s *session) Close() error {
	s.closeSession()
	if s.accel != nil {
		_ = s.accel.Destroy()
		s.accel = nil
	}
	if s.cpu != nil {
		_ = s.cpu.Destroy()
		s.cpu = nil
	}
	s.in.Reset()
	s.out.Reset()
	return nil
}
