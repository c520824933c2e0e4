package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Export renders cfg in the requested format: conf (the key = value file
// format), yaml, json or toml.
func Export(cfg Config, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "conf":
		return exportConf(cfg), nil
	case "yaml", "yml":
		return yaml.Marshal(cfg)
	case "json":
		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "toml":
		return toml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func exportConf(cfg Config) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "backend = %s\n", cfg.Backend)
	fmt.Fprintf(&b, "suffix = %s\n", cfg.Suffix)
	if cfg.ModelDir != "" {
		fmt.Fprintf(&b, "model_dir = %s\n", cfg.ModelDir)
	} else {
		b.WriteString("# model_dir = /opt/models\n")
	}
	fmt.Fprintf(&b, "threads = %d\n", cfg.Threads)
	fmt.Fprintf(&b, "force_cpu = %t\n", cfg.ForceCPU)
	fmt.Fprintf(&b, "log_level = %d\n", int(cfg.LogLevel))
	return b.Bytes()
}
