package runtime

import (
	"os"
	"sync"

	"github.com/rs/zerolog"

	"neuronshim/internal/backend"
	"neuronshim/internal/common/fsutil"
	"neuronshim/internal/config"
	"neuronshim/internal/logging"
	"neuronshim/internal/resolver"
	"neuronshim/internal/selector"
)

// Shim is the process-wide context shared by every Runtime: the resolved
// configuration, the selected backend and the model suffix. It is immutable
// after construction.
type Shim struct {
	cfg     config.Config
	backend backend.Backend
	suffix  string
	log     zerolog.Logger
}

// Option customizes New.
type Option func(*options)

type options struct {
	log      *zerolog.Logger
	backend  backend.Backend
	selector *selector.Selector
}

// WithLogger overrides the logger built from the configured verbosity.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = &l } }

// WithBackend bypasses selection and uses b.
func WithBackend(b backend.Backend) Option { return func(o *options) { o.backend = b } }

// WithSelector selects the backend with s instead of the default table.
func WithSelector(s *selector.Selector) Option { return func(o *options) { o.selector = s } }

// New builds a Shim from cfg, selecting a backend unless one is supplied.
func New(cfg config.Config, opts ...Option) *Shim {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	log := logging.New(os.Stderr, cfg.LogLevel)
	if o.log != nil {
		log = *o.log
	}

	log.Info().Msg("=== neuron-shim initializing ===")
	log.Info().
		Str("backend", cfg.Backend).
		Str("suffix", cfg.Suffix).
		Int("threads", cfg.Threads).
		Bool("force_cpu", cfg.ForceCPU).
		Msg("config")
	if cfg.ModelDir != "" {
		log.Info().Str("model_dir", cfg.ModelDir).Msg("config")
		if !fsutil.PathExists(cfg.ModelDir) {
			log.Warn().Str("model_dir", cfg.ModelDir).Msg("model directory does not exist, every load will fail")
		}
	}

	b := o.backend
	if b == nil {
		sel := o.selector
		if sel == nil {
			sel = selector.Default(log)
		}
		name := cfg.Backend
		if cfg.AutoBackend() {
			name = ""
		}
		b = sel.Select(name)
	}
	s := &Shim{cfg: cfg, backend: b, suffix: cfg.SuffixFor(b.Name()), log: log}

	log.Info().Str("backend", b.Name()).Msg("active backend")
	log.Info().Str("suffix", s.suffix).Msg("model suffix")
	log.Info().
		Str("from", "<path>.dla").
		Str("to", resolver.Compute("<path>.dla", s.suffix, cfg.ModelDir)).
		Msg("model resolution")
	return s
}

var defaultShim = sync.OnceValue(func() *Shim {
	res := config.NewLoader().Load()
	s := New(res.Config)
	for _, src := range res.Sources {
		ev := s.log.Debug()
		if src.Err != nil {
			ev = s.log.Warn().Err(src.Err)
		}
		ev.Str("source", src.Name).Str("path", src.Path).Msg("config source")
	}
	return s
})

// Default returns the process-wide Shim, resolving configuration and
// selecting the backend on first use. Concurrent first calls observe a
// single initialization.
func Default() *Shim { return defaultShim() }

// Config returns a copy of the resolved configuration.
func (s *Shim) Config() config.Config { return s.cfg }

// Backend returns the selected adapter descriptor.
func (s *Shim) Backend() backend.Backend { return s.backend }

// Suffix returns the resolved model suffix.
func (s *Shim) Suffix() string { return s.suffix }

// Logger returns the shim logger.
func (s *Shim) Logger() zerolog.Logger { return s.log }
