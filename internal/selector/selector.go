// Package selector picks the inference adapter for the process: an explicit
// configured name wins, otherwise the first engine whose shared runtime can be
// loaded, otherwise the stub.
package selector

import (
	"strings"

	"github.com/rs/zerolog"

	"neuronshim/internal/backend"
	"neuronshim/internal/backend/onnx"
	"neuronshim/internal/backend/probe"
	"neuronshim/internal/backend/stub"
	"neuronshim/internal/backend/tflite"
)

// Candidate is one row of the capability table.
type Candidate struct {
	Name string
	// Library is the shared runtime probed during auto-detection. Empty means
	// the candidate needs no engine and always qualifies.
	Library string
	// Compiled reports whether the adapter is linked into this binary.
	Compiled bool
	New      func() backend.Backend
}

// Candidates returns the capability table in auto-detect priority order. The
// stub is always last.
func Candidates() []Candidate {
	return []Candidate{
		{Name: onnx.Name, Library: onnx.Library(), Compiled: onnx.Compiled, New: onnx.New},
		{Name: tflite.Name, Library: tflite.Library(), Compiled: tflite.Compiled, New: tflite.New},
		{Name: stub.Name, Compiled: true, New: stub.New},
	}
}

// Selector chooses a backend from a candidate table.
type Selector struct {
	Candidates []Candidate
	Prober     probe.Prober
	Logger     zerolog.Logger
}

// Default returns a Selector over the adapters compiled into this binary,
// probing with the system dynamic loader.
func Default(log zerolog.Logger) *Selector {
	return &Selector{Candidates: Candidates(), Prober: probe.Dynamic, Logger: log}
}

// Select returns the adapter for name. "" and "auto" auto-detect; an unknown
// name, or one whose adapter is not compiled in, logs a warning and
// auto-detects. Select never fails.
func (s *Selector) Select(name string) backend.Backend {
	name = strings.ToLower(strings.TrimSpace(name))
	if name != "" && name != "auto" {
		c, ok := s.lookup(name)
		switch {
		case ok && c.Compiled:
			s.Logger.Info().Str("backend", c.Name).Msg("backend selected by configuration")
			return c.New()
		case ok:
			s.Logger.Warn().Str("backend", name).Msg("backend not compiled into this build, falling back")
		default:
			s.Logger.Warn().Str("backend", name).Msg("unknown backend, falling back")
		}
	}
	return s.detect()
}

func (s *Selector) lookup(name string) (Candidate, bool) {
	for _, c := range s.Candidates {
		if c.Name == name {
			return c, true
		}
	}
	return Candidate{}, false
}

func (s *Selector) detect() backend.Backend {
	for _, c := range s.Candidates {
		if !c.Compiled || c.Library == "" {
			continue
		}
		if s.loadable(c.Library) {
			s.Logger.Info().Str("backend", c.Name).Str("library", c.Library).Msg("auto-selected")
			return c.New()
		}
		s.Logger.Debug().Str("backend", c.Name).Str("library", c.Library).Msg("runtime not loadable")
	}
	for _, c := range s.Candidates {
		if c.Library == "" && c.Compiled {
			s.Logger.Info().Str("backend", c.Name).Msg("using fallback backend")
			return c.New()
		}
	}
	s.Logger.Info().Str("backend", stub.Name).Msg("using fallback backend")
	return stub.New()
}

func (s *Selector) loadable(lib string) bool {
	if s.Prober == nil {
		return false
	}
	return s.Prober.Loadable(lib)
}

// Status describes one candidate for operator reports.
type Status struct {
	Name      string `json:"name"`
	Library   string `json:"library,omitempty"`
	Compiled  bool   `json:"compiled"`
	Available bool   `json:"available"`
}

// Report probes every candidate without selecting one. A candidate is
// available when it is compiled in and its runtime (if any) is loadable.
func (s *Selector) Report() []Status {
	out := make([]Status, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		st := Status{Name: c.Name, Library: c.Library, Compiled: c.Compiled}
		st.Available = c.Compiled && (c.Library == "" || s.loadable(c.Library))
		out = append(out, st)
	}
	return out
}
