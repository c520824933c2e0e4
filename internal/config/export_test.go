package config

import (
	"bytes"
	"strings"
	"testing"
)

func TestExport_ConfParsesBack(t *testing.T) {
	cfg := Config{Backend: "onnx", Suffix: ".onnx", ModelDir: "/opt/models", Threads: 2, ForceCPU: true, LogLevel: 4}
	b, err := Export(cfg, "conf")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	l, err := Parse(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := l.Apply(Defaults()); got != cfg {
		t.Fatalf("conf round trip: got %+v want %+v", got, cfg)
	}
}

func TestExport_StructuredFormats(t *testing.T) {
	cfg := Defaults()
	for _, f := range []string{"yaml", "json", "toml"} {
		b, err := Export(cfg, f)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if !strings.Contains(string(b), "model_dir") || !strings.Contains(string(b), "auto") {
			t.Fatalf("%s output missing fields: %s", f, b)
		}
	}
	if _, err := Export(cfg, "ini"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
