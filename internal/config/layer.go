package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"neuronshim/internal/logging"
)

// Environment variable names, one per setting.
const (
	EnvBackend  = "NEURON_SHIM_BACKEND"
	EnvSuffix   = "NEURON_SHIM_SUFFIX"
	EnvModelDir = "NEURON_SHIM_MODEL_DIR"
	EnvThreads  = "NEURON_SHIM_NUM_THREADS"
	EnvForceCPU = "NEURON_SHIM_FORCE_CPU"
	EnvLogLevel = "NEURON_SHIM_LOG_LEVEL"
)

// Layer is one configuration source. A nil field means the source did not
// mention the setting, so applying the layer leaves the earlier value alone.
// Values stay raw strings until Apply so every source shares one parser.
type Layer struct {
	Backend  *string `env:"NEURON_SHIM_BACKEND"`
	Suffix   *string `env:"NEURON_SHIM_SUFFIX"`
	ModelDir *string `env:"NEURON_SHIM_MODEL_DIR"`
	Threads  *string `env:"NEURON_SHIM_NUM_THREADS"`
	ForceCPU *string `env:"NEURON_SHIM_FORCE_CPU"`
	LogLevel *string `env:"NEURON_SHIM_LOG_LEVEL"`
}

// Empty reports whether the layer sets nothing.
func (l Layer) Empty() bool {
	return l.Backend == nil && l.Suffix == nil && l.ModelDir == nil &&
		l.Threads == nil && l.ForceCPU == nil && l.LogLevel == nil
}

// set records key=value. Unknown keys are ignored and reported as false.
func (l *Layer) set(key, value string) bool {
	v := value
	switch key {
	case "backend":
		l.Backend = &v
	case "suffix":
		l.Suffix = &v
	case "model_dir":
		l.ModelDir = &v
	case "threads":
		l.Threads = &v
	case "force_cpu":
		l.ForceCPU = &v
	case "log_level":
		l.LogLevel = &v
	default:
		return false
	}
	return true
}

// Apply overlays the layer onto c field by field. Numeric values that do not
// parse fall back to the compiled default rather than the previous layer.
func (l Layer) Apply(c Config) Config {
	if l.Backend != nil {
		c.Backend = strings.TrimSpace(*l.Backend)
	}
	if l.Suffix != nil {
		c.Suffix = strings.TrimSpace(*l.Suffix)
	}
	if l.ModelDir != nil {
		c.ModelDir = strings.TrimSpace(*l.ModelDir)
	}
	if l.Threads != nil {
		n, err := strconv.Atoi(strings.TrimSpace(*l.Threads))
		if err != nil {
			n = DefaultThreads
		}
		c.Threads = n
	}
	if l.ForceCPU != nil {
		c.ForceCPU = parseBool(*l.ForceCPU)
	}
	if l.LogLevel != nil {
		lvl, ok := logging.ParseLevel(*l.LogLevel)
		if !ok {
			lvl = DefaultLogLevel
		}
		c.LogLevel = lvl
	}
	return c
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// ParseFile reads a key = value configuration file. A missing file is not an
// error and yields an empty layer.
func ParseFile(path string) (Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Layer{}, nil
		}
		return Layer{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	l, err := Parse(f)
	if err != nil {
		return Layer{}, fmt.Errorf("read %s: %w", path, err)
	}
	return l, nil
}

// Parse reads key = value lines from r. Blank lines and lines starting with
// '#' are skipped. The value is the first whitespace-delimited token after
// '=', so trailing comments on a line are dropped.
func Parse(r io.Reader) (Layer, error) {
	var l Layer
	br := bufio.NewReader(r)
	for {
		raw, err := br.ReadString('\n')
		if raw == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return l, nil
			}
			return l, err
		}
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '#' {
			continue
		}
		key, rest, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		fields := strings.Fields(rest)
		if key == "" || len(fields) == 0 || strings.ContainsAny(key, " \t") {
			continue
		}
		l.set(key, fields[0])
	}
}

// EnvLayer reads the NEURON_SHIM_* variables. environ overrides the process
// environment when non-nil. A variable that is present but empty still counts
// as set, so NEURON_SHIM_MODEL_DIR= clears a directory named in a file.
func EnvLayer(environ map[string]string) (Layer, error) {
	var l Layer
	opts := env.Options{}
	lookup := os.LookupEnv
	if environ != nil {
		opts.Environment = environ
		lookup = func(k string) (string, bool) {
			v, ok := environ[k]
			return v, ok
		}
	}
	if err := env.ParseWithOptions(&l, opts); err != nil {
		return Layer{}, fmt.Errorf("parse env: %w", err)
	}
	for name, field := range l.fields() {
		if *field != nil {
			continue
		}
		if v, ok := lookup(name); ok {
			*field = &v
		}
	}
	return l, nil
}

func (l *Layer) fields() map[string]**string {
	return map[string]**string{
		EnvBackend:  &l.Backend,
		EnvSuffix:   &l.Suffix,
		EnvModelDir: &l.ModelDir,
		EnvThreads:  &l.Threads,
		EnvForceCPU: &l.ForceCPU,
		EnvLogLevel: &l.LogLevel,
	}
}
