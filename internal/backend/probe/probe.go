// Package probe checks whether an engine's shared runtime can be loaded into
// this process without keeping it mapped.
package probe

// Prober reports whether the named shared library is loadable.
type Prober interface {
	Loadable(library string) bool
}

// Func adapts a plain function to Prober.
type Func func(library string) bool

func (f Func) Loadable(library string) bool { return f(library) }

// Dynamic probes with the system dynamic loader.
var Dynamic Prober = Func(Loadable)
