// Package config resolves the shim configuration from compiled defaults, the
// system-wide and local configuration files, and the environment.
package config

import (
	"neuronshim/internal/logging"
)

// Compiled-in defaults.
const (
	DefaultBackend  = "auto"
	DefaultSuffix   = "auto"
	DefaultThreads  = 4
	DefaultForceCPU = false
	DefaultLogLevel = logging.DefaultLevel

	// Auto is the value that defers a choice to runtime detection.
	Auto = "auto"
)

// Fixed configuration file locations, lowest precedence first.
const (
	SystemPath = "/etc/neuron-shim.conf"
	LocalPath  = "./neuron-shim.conf"
)

// Model file extensions used when the suffix policy is "auto".
const (
	SuffixONNX   = ".onnx"
	SuffixTFLite = ".tflite"
)

// Config is one resolved snapshot. Values are copied, never shared, so a
// Config handed out by the loader cannot be mutated behind a caller's back.
type Config struct {
	// Backend is "auto" or an adapter name (onnx, tflite, stub).
	Backend string `json:"backend" yaml:"backend" toml:"backend"`
	// Suffix is "auto" or an explicit extension appended to requested model paths.
	Suffix string `json:"suffix" yaml:"suffix" toml:"suffix"`
	// ModelDir redirects model lookups into this directory when non-empty.
	ModelDir string        `json:"model_dir" yaml:"model_dir" toml:"model_dir"`
	Threads  int           `json:"threads" yaml:"threads" toml:"threads"`
	ForceCPU bool          `json:"force_cpu" yaml:"force_cpu" toml:"force_cpu"`
	LogLevel logging.Level `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Defaults returns the compiled-in configuration.
func Defaults() Config {
	return Config{
		Backend:  DefaultBackend,
		Suffix:   DefaultSuffix,
		Threads:  DefaultThreads,
		ForceCPU: DefaultForceCPU,
		LogLevel: DefaultLogLevel,
	}
}

// AutoBackend reports whether backend selection is left to auto-detection.
func (c Config) AutoBackend() bool {
	return c.Backend == "" || c.Backend == Auto
}

// SuffixFor returns the model suffix to append for the given backend. An
// explicit suffix is returned verbatim; "auto" maps tflite to its native
// extension and every other backend to the shared ONNX extension.
func (c Config) SuffixFor(backend string) string {
	if c.Suffix != "" && c.Suffix != Auto {
		return c.Suffix
	}
	if backend == "tflite" {
		return SuffixTFLite
	}
	return SuffixONNX
}
