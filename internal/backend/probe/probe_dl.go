//go:build darwin || linux || freebsd

package probe

import "github.com/ebitengine/purego"

// Loadable first asks the loader for an already-mapped copy of library and
// only then tries a lazy load. Any handle obtained is closed again before
// returning; the adapter opens the runtime for real when a session is created.
func Loadable(library string) bool {
	if library == "" {
		return false
	}
	h, err := purego.Dlopen(library, purego.RTLD_LAZY|rtldNoLoad)
	if err != nil || h == 0 {
		h, err = purego.Dlopen(library, purego.RTLD_LAZY)
	}
	if err != nil || h == 0 {
		return false
	}
	_ = purego.Dlclose(h)
	return true
}
