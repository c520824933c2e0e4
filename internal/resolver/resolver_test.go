package resolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCompute(t *testing.T) {
	cases := []struct {
		orig, suffix, dir, want string
	}{
		{"/data/m.dla", ".onnx", "", "/data/m.dla.onnx"},
		{"/data/m.dla", ".onnx", "/opt/models", "/opt/models/m.dla.onnx"},
		{"/data/m.dla", ".onnx", "/opt/models/", "/opt/models/m.dla.onnx"},
		{"m.dla", ".tflite", "", "m.dla.tflite"},
		{"m.dla", ".tflite", "rel", "rel/m.dla.tflite"},
		{"/data/nested/", ".onnx", "/opt", "/opt/nested.onnx"},
		{"/data/m.dla", "", "", "/data/m.dla"},
	}
	for _, c := range cases {
		if got := Compute(c.orig, c.suffix, c.dir); got != c.want {
			t.Fatalf("Compute(%q,%q,%q) = %q want %q", c.orig, c.suffix, c.dir, got, c.want)
		}
	}
}

func TestResolve_Found(t *testing.T) {
	dir := t.TempDir()
	orig := filepath.Join(dir, "person_detect.dla")
	if err := os.WriteFile(orig+".onnx", []byte("model"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Resolve(orig, ".onnx", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != orig+".onnx" {
		t.Fatalf("got %q", got)
	}
}

func TestResolve_Redirect(t *testing.T) {
	models := t.TempDir()
	if err := os.WriteFile(filepath.Join(models, "m.dla.onnx"), []byte("model"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Resolve("/usr/share/app/m.dla", ".onnx", models+"/")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != filepath.Join(models, "m.dla.onnx") {
		t.Fatalf("got %q", got)
	}
}

func TestResolve_MissingEvenIfOriginalExists(t *testing.T) {
	dir := t.TempDir()
	orig := filepath.Join(dir, "m.dla")
	if err := os.WriteFile(orig, []byte("vendor blob"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Resolve(orig, ".onnx", "")
	if !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError")
	}
	if nf.Requested != orig || nf.Computed != orig+".onnx" {
		t.Fatalf("unexpected paths: %+v", nf)
	}
	msg := err.Error()
	if !strings.Contains(msg, orig) || !strings.Contains(msg, orig+".onnx") {
		t.Fatalf("error should name both paths: %s", msg)
	}
}

func TestResolve_DirectoryIsNotAModel(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "m.dla.onnx"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := Resolve(filepath.Join(dir, "m.dla"), ".onnx", ""); !IsNotFound(err) {
		t.Fatalf("directory must not resolve, got %v", err)
	}
}

func TestDiagnostic(t *testing.T) {
	withDir := &NotFoundError{Requested: "/data/m.dla", Computed: "/opt/models/m.dla.onnx", ModelDir: "/opt/models", Suffix: ".onnx"}
	d := withDir.Diagnostic()
	for _, want := range []string{"/data/m.dla", "/opt/models/m.dla.onnx", "cp your_model.onnx /opt/models/m.dla.onnx", "model_dir is set to"} {
		if !strings.Contains(d, want) {
			t.Fatalf("diagnostic missing %q:\n%s", want, d)
		}
	}

	inPlace := &NotFoundError{Requested: "/data/m.dla", Computed: "/data/m.dla.onnx", Suffix: ".onnx"}
	d = inPlace.Diagnostic()
	if !strings.Contains(d, "model_dir = /opt/models") || !strings.Contains(d, "cp your_model.onnx /data/m.dla.onnx") {
		t.Fatalf("in-place diagnostic missing remediation:\n%s", d)
	}
}

func TestIsNotFound_Wrapped(t *testing.T) {
	err := fmt.Errorf("load: %w", &NotFoundError{Requested: "a", Computed: "a.onnx"})
	if !IsNotFound(err) {
		t.Fatalf("wrapped not-found not detected")
	}
	if IsNotFound(errors.New("other")) {
		t.Fatalf("false positive")
	}
}
