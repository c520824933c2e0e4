// Package stub is the no-op adapter. Every call succeeds and inference leaves
// all bound output buffers zeroed, which most detection models read as "no
// detections". It is used to boot applications without an engine and to trace
// which models and tensor sizes they use.
package stub

import (
	"fmt"

	"github.com/rs/zerolog"

	"neuronshim/internal/backend"
)

// Name is the configuration name of this adapter.
const Name = "stub"

// defaultTensorSize is reported for tensors the application has not bound yet.
const defaultTensorSize = 1024

type stubBackend struct{}

// New returns the stub adapter descriptor.
func New() backend.Backend { return stubBackend{} }

func (stubBackend) Name() string { return Name }

func (stubBackend) Create(opts backend.Options) (backend.Session, error) {
	log := opts.Logger.With().Str("backend", Name).Logger()
	log.Info().Msg("backend created, all calls are no-ops")
	return &session{log: log}, nil
}

type session struct {
	log zerolog.Logger

	model       string
	inputSizes  [backend.MaxTensors]int
	inputCount  int
	outputCount int
	outputs     backend.Bindings
	inferences  int
}

func (s *session) LoadFromFile(path string) error {
	s.model = path
	s.log.Info().Str("path", path).Msg("LOAD")
	s.inputCount, s.outputCount = 1, 1
	return nil
}

func (s *session) LoadFromBuffer(model []byte) error {
	s.model = fmt.Sprintf("<buffer:%d bytes>", len(model))
	s.log.Info().Int("bytes", len(model)).Msg("LOAD from buffer")
	s.inputCount, s.outputCount = 1, 1
	return nil
}

func (s *session) InputCount() (int, error)  { return max(s.inputCount, 1), nil }
func (s *session) OutputCount() (int, error) { return max(s.outputCount, 1), nil }

func (s *session) InputSize(index int) (int, error) {
	if index < 0 || index >= max(s.inputCount, 1) {
		return 0, backend.ErrIndexOutOfRange
	}
	if n := s.inputSizes[index]; n > 0 {
		return n, nil
	}
	return defaultTensorSize, nil
}

func (s *session) OutputSize(index int) (int, error) {
	if index < 0 || index >= max(s.outputCount, 1) {
		return 0, backend.ErrIndexOutOfRange
	}
	if buf, ok := s.outputs.Get(index); ok && len(buf) > 0 {
		return len(buf), nil
	}
	return defaultTensorSize, nil
}

// SetInput only records the size; the stub never reads input data.
func (s *session) SetInput(index int, buf []byte) error {
	if index < 0 || index >= backend.MaxTensors {
		return backend.ErrIndexOutOfRange
	}
	s.inputSizes[index] = len(buf)
	if index >= s.inputCount {
		s.inputCount = index + 1
	}
	s.log.Debug().Int("index", index).Int("bytes", len(buf)).Msg("SET_INPUT")
	return nil
}

func (s *session) SetOutput(index int, buf []byte) error {
	if err := s.outputs.Bind(index, buf); err != nil {
		return err
	}
	if index >= s.outputCount {
		s.outputCount = index + 1
	}
	s.log.Debug().Int("index", index).Int("bytes", len(buf)).Msg("SET_OUTPUT")
	return nil
}

func (s *session) Invoke() error {
	s.inferences++
	s.outputs.Fill(0)
	if s.inferences <= 5 || s.inferences%100 == 0 {
		s.log.Info().Int("n", s.inferences).Msg("INFERENCE (outputs zeroed)")
	}
	return nil
}

func (s *session) Close() error {
	s.log.Info().Int("inferences", s.inferences).Str("model", s.model).Msg("stats")
	s.outputs.Reset()
	return nil
}

// Inferences reports how many times Invoke ran.
func (s *session) Inferences() int { return s.inferences }
