package config

import (
	"neuronshim/internal/common/fsutil"
)

// Loader resolves a Config from its sources. The zero value is not useful;
// use NewLoader for the standard locations.
type Loader struct {
	// SystemPath and LocalPath are read in that order; either may be empty.
	SystemPath string
	LocalPath  string
	// Environ replaces the process environment when non-nil.
	Environ map[string]string
}

// NewLoader returns a Loader reading the fixed system and local files and the
// process environment.
func NewLoader() *Loader {
	return &Loader{SystemPath: SystemPath, LocalPath: LocalPath}
}

// Source names one layer that contributed to a resolved Config.
type Source struct {
	Name string
	Path string
	Err  error
}

// Result carries the resolved Config and the sources that were consulted.
// Source errors never abort loading; they are surfaced for logging.
type Result struct {
	Config  Config
	Sources []Source
}

// Load resolves the configuration: defaults, then the system file, then the
// local file, then the environment. It never fails.
func (l *Loader) Load() Result {
	res := Result{Config: Defaults()}
	for _, f := range []struct{ name, path string }{
		{"system", l.SystemPath},
		{"local", l.LocalPath},
	} {
		if f.path == "" {
			continue
		}
		layer, err := ParseFile(f.path)
		if err == nil && !layer.Empty() {
			res.Config = layer.Apply(res.Config)
		}
		if err != nil || !layer.Empty() {
			res.Sources = append(res.Sources, Source{Name: f.name, Path: f.path, Err: err})
		}
	}
	envLayer, err := EnvLayer(l.Environ)
	if err == nil && !envLayer.Empty() {
		res.Config = envLayer.Apply(res.Config)
	}
	if err != nil || !envLayer.Empty() {
		res.Sources = append(res.Sources, Source{Name: "env", Err: err})
	}
	if dir, err := fsutil.ExpandHome(res.Config.ModelDir); err == nil {
		res.Config.ModelDir = dir
	}
	return res
}

// Load resolves the configuration from the standard locations.
func Load() Config {
	return NewLoader().Load().Config
}
