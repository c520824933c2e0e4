package runtime

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"neuronshim/internal/backend"
	"neuronshim/internal/resolver"
	"neuronshim/pkg/types"
)

// Runtime is one application handle. It owns a single adapter session.
type Runtime struct {
	shim     *Shim
	session  backend.Session
	log      zerolog.Logger
	released bool
}

// Create opens a new Runtime on the shim's backend. rc is accepted for ABI
// compatibility and ignored.
func (s *Shim) Create(rc *types.RuntimeConfig) (*Runtime, error) {
	_ = rc
	sess, err := s.backend.Create(backend.Options{
		Threads:  s.cfg.Threads,
		ForceCPU: s.cfg.ForceCPU,
		Logger:   s.log,
	})
	if err != nil {
		s.log.Error().Err(err).Str("backend", s.backend.Name()).Msg("backend create failed")
		return nil, observe("create", opFailed("create", err))
	}
	liveHandles.Inc()
	r := &Runtime{shim: s, session: sess, log: s.log}
	r.log.Debug().Msg("runtime created")
	return r, observe("create", nil)
}

// check rejects nil and released handles.
func (r *Runtime) check() error {
	if r == nil {
		return ErrUnexpectedNull("runtime")
	}
	if r.released {
		return ErrUnexpectedNull("runtime (released)")
	}
	return nil
}

// Release destroys the adapter session. Every later call on r fails.
func (r *Runtime) Release() error {
	if err := r.check(); err != nil {
		return observe("release", err)
	}
	r.log.Debug().Msg("runtime release")
	r.released = true
	liveHandles.Dec()
	if err := r.session.Close(); err != nil {
		r.log.Warn().Err(err).Msg("backend close")
	}
	r.session = nil
	return observe("release", nil)
}

// LoadNetworkFromFile resolves path to a converted model and loads it. A
// model that cannot be found is reported as bad data and never falls back to
// the original path. An empty path resolves like any other and so is bad data
// unless a file named after the bare suffix exists.
func (r *Runtime) LoadNetworkFromFile(path string) error {
	if err := r.check(); err != nil {
		return observe("load_file", err)
	}
	r.log.Info().Str("path", path).Msg("loadNetwork")
	cfg := r.shim.cfg
	resolved, err := resolver.Resolve(path, r.shim.suffix, cfg.ModelDir)
	if err != nil {
		var nf *resolver.NotFoundError
		if errors.As(err, &nf) {
			r.log.Error().Str("path", path).Str("looked_for", nf.Computed).Msg("model not found")
			r.log.Error().Msg("\n" + nf.Diagnostic())
		}
		return observe("load_file", err)
	}
	r.log.Info().Str("path", resolved).Msg("loading")
	if err := r.session.LoadFromFile(resolved); err != nil {
		r.log.Error().Err(err).Str("path", resolved).Msg("backend failed to load")
		return observe("load_file", opFailed("load", err))
	}
	return observe("load_file", nil)
}

// LoadNetworkFromBuffer loads a model image directly. No path resolution
// applies and the buffer may be released once the call returns.
func (r *Runtime) LoadNetworkFromBuffer(buf []byte) error {
	if err := r.check(); err != nil {
		return observe("load_buffer", err)
	}
	if buf == nil {
		return observe("load_buffer", ErrUnexpectedNull("buffer"))
	}
	r.log.Info().Int("bytes", len(buf)).Msg("loadNetworkFromBuffer")
	if err := r.session.LoadFromBuffer(buf); err != nil {
		r.log.Error().Err(err).Msg("backend failed to load buffer")
		return observe("load_buffer", opFailed("load", err))
	}
	return observe("load_buffer", nil)
}

// InputCount returns the number of model inputs.
func (r *Runtime) InputCount() (uint32, error) {
	return r.count("input_count", func(s backend.Session) (int, error) { return s.InputCount() })
}

// OutputCount returns the number of model outputs.
func (r *Runtime) OutputCount() (uint32, error) {
	return r.count("output_count", func(s backend.Session) (int, error) { return s.OutputCount() })
}

func (r *Runtime) count(op string, fn func(backend.Session) (int, error)) (uint32, error) {
	if err := r.check(); err != nil {
		return 0, observe(op, err)
	}
	n, err := fn(r.session)
	if err != nil {
		return 0, observe(op, opFailed(op, err))
	}
	return uint32(n), observe(op, nil)
}

// InputSize returns the byte size of input index.
func (r *Runtime) InputSize(index int) (uint64, error) {
	return r.size("input_size", index, func(s backend.Session) (int, error) { return s.InputSize(index) })
}

// OutputSize returns the byte size of output index.
func (r *Runtime) OutputSize(index int) (uint64, error) {
	return r.size("output_size", index, func(s backend.Session) (int, error) { return s.OutputSize(index) })
}

func (r *Runtime) size(op string, index int, fn func(backend.Session) (int, error)) (uint64, error) {
	if err := r.check(); err != nil {
		return 0, observe(op, err)
	}
	n, err := fn(r.session)
	if err != nil {
		r.log.Debug().Err(err).Int("index", index).Str("op", op).Msg("size query failed")
		return 0, observe(op, opFailed(op, err))
	}
	return uint64(n), observe(op, nil)
}

// InputInfo describes input index. Only SizeBytes is filled.
func (r *Runtime) InputInfo(index int) (types.TensorInfo, error) {
	n, err := r.InputSize(index)
	return types.TensorInfo{SizeBytes: n}, err
}

// OutputInfo describes output index. Only SizeBytes is filled.
func (r *Runtime) OutputInfo(index int) (types.TensorInfo, error) {
	n, err := r.OutputSize(index)
	return types.TensorInfo{SizeBytes: n}, err
}

// SetInput binds buf to input index. The buffer is read at Inference time and
// must stay valid until then. padding is ignored.
func (r *Runtime) SetInput(index int, buf []byte, padding int) error {
	return r.bind("set_input", index, buf, padding, func(s backend.Session) error { return s.SetInput(index, buf) })
}

// SetOutput binds buf to output index. Inference writes at most len(buf)
// bytes into it. padding is ignored.
func (r *Runtime) SetOutput(index int, buf []byte, padding int) error {
	return r.bind("set_output", index, buf, padding, func(s backend.Session) error { return s.SetOutput(index, buf) })
}

func (r *Runtime) bind(op string, index int, buf []byte, padding int, fn func(backend.Session) error) error {
	if err := r.check(); err != nil {
		return observe(op, err)
	}
	if buf == nil {
		return observe(op, ErrUnexpectedNull("buffer"))
	}
	r.log.Debug().Int("index", index).Int("bytes", len(buf)).Int("padding", padding).Msg(op)
	if err := fn(r.session); err != nil {
		return observe(op, opFailed(op, err))
	}
	return observe(op, nil)
}

// Inference runs the model on the bound inputs and fills the bound outputs.
func (r *Runtime) Inference() error {
	if err := r.check(); err != nil {
		return observe("inference", err)
	}
	r.log.Debug().Msg("inference begin")
	start := time.Now()
	if err := r.session.Invoke(); err != nil {
		r.log.Error().Err(err).Msg("inference failed")
		return observe("inference", opFailed("inference", err))
	}
	observeInference(r.shim.backend.Name(), start)
	r.log.Debug().Dur("took", time.Since(start)).Msg("inference done")
	return observe("inference", nil)
}
