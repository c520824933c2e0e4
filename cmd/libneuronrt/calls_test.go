package main

import (
	"os"
	"path/filepath"
	"testing"

	"neuronshim/internal/backend/stub"
	"neuronshim/internal/config"
	"neuronshim/internal/logging"
	"neuronshim/internal/runtime"
	"neuronshim/pkg/types"
)

func useStubShim(t *testing.T, modelDir string) {
	t.Helper()
	cfg := config.Defaults()
	cfg.ModelDir = modelDir
	s := runtime.New(cfg, runtime.WithLogger(logging.Nop()), runtime.WithBackend(stub.New()))
	prev := shim
	shim = func() *runtime.Shim { return s }
	t.Cleanup(func() { shim = prev })
}

func TestCreateLoadRelease(t *testing.T) {
	dir := t.TempDir()
	useStubShim(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "mobilenet.dla.onnx"), []byte("m"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	id, err := create(&types.RuntimeConfig{})
	if err != nil || id == 0 {
		t.Fatalf("create: id=%d err=%v", id, err)
	}
	r := lookup(id)
	if code(r.LoadNetworkFromFile("/data/mobilenet.dla")) != types.NoError {
		t.Fatalf("load failed")
	}
	if code(r.LoadNetworkFromFile("/data/missing.dla")) != types.BadData {
		t.Fatalf("missing model should be bad data")
	}
	if code(release(id)) != types.NoError {
		t.Fatalf("release failed")
	}
	if lookup(id) != nil {
		t.Fatalf("released id still resolves")
	}
	if code(release(id)) != types.UnexpectedNull {
		t.Fatalf("double release should be unexpected null")
	}
}

func TestNullHandle(t *testing.T) {
	useStubShim(t, "")
	r := lookup(0)
	if code(r.Inference()) != types.UnexpectedNull {
		t.Fatalf("null handle inference should be unexpected null")
	}
	if code(r.SetQoSOption(nil)) != types.NoError {
		t.Fatalf("qos on null handle must succeed")
	}
	if code(release(0)) != types.UnexpectedNull {
		t.Fatalf("null release should be unexpected null")
	}
}
