package runtime

import (
	"os"
	"path/filepath"
	"testing"

	"neuronshim/internal/backend/stub"
	"neuronshim/internal/config"
	"neuronshim/internal/logging"
)

// newTestShim builds a stub-backed Shim whose models live in a temp dir.
func newTestShim(t *testing.T, modelDir string) *Shim {
	t.Helper()
	cfg := config.Defaults()
	cfg.Backend = "stub"
	cfg.ModelDir = modelDir
	return New(cfg, WithLogger(logging.Nop()), WithBackend(stub.New()))
}

func writeModel(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("model"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
}

func mustCreate(t *testing.T, s *Shim) *Runtime {
	t.Helper()
	r, err := s.Create(nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return r
}
