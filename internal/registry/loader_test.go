package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDir_FiltersBySuffix(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"pose.dla.onnx",
		"detect.dla.ONNX", // case-insensitive
		"detect.dla.tflite",
		"detect.dla",
		".onnx",
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("model"), 0o644); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.onnx"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	models, err := LoadDir(dir, ".onnx")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d: %+v", len(models), models)
	}
	if models[0].Name != "detect.dla" || models[1].Name != "pose.dla" {
		t.Fatalf("unexpected names: %s, %s", models[0].Name, models[1].Name)
	}
	if models[1].Path != filepath.Join(dir, "pose.dla.onnx") || models[1].Size != 5 {
		t.Fatalf("unexpected model: %+v", models[1])
	}
}

func TestLoadDir_Errors(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "missing"), ".onnx"); err == nil {
		t.Fatalf("expected error for missing dir")
	}
	if _, err := LoadDir(t.TempDir(), ""); err == nil {
		t.Fatalf("expected error for empty suffix")
	}
}

func TestLoadDir_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, "models"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, "models", "a.dla.tflite"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	models, err := LoadDir("~/models", ".tflite")
	if err != nil || len(models) != 1 || models[0].Name != "a.dla" {
		t.Fatalf("got %+v, %v", models, err)
	}
}
