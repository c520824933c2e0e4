// Package resolver maps the model path an application asks for (typically a
// vendor .dla file) onto the converted model the selected backend can load.
//
//	model_dir empty: /usr/share/models/detect.dla -> /usr/share/models/detect.dla.onnx
//	model_dir set:   /usr/share/models/detect.dla -> <model_dir>/detect.dla.onnx
package resolver

import (
	"path/filepath"
	"strings"

	"neuronshim/internal/common/fsutil"
)

// Compute returns the path the shim will load for original. It does not touch
// the filesystem.
func Compute(original, suffix, modelDir string) string {
	if modelDir == "" {
		return original + suffix
	}
	sep := "/"
	if strings.HasSuffix(modelDir, "/") {
		sep = ""
	}
	return modelDir + sep + baseName(original) + suffix
}

// Resolve computes the model path and verifies the result is readable. The
// returned error is a *NotFoundError when the file cannot be read; the
// original path is never used as a substitute.
func Resolve(original, suffix, modelDir string) (string, error) {
	resolved := Compute(original, suffix, modelDir)
	if !fsutil.Readable(resolved) {
		return "", &NotFoundError{
			Requested: original,
			Computed:  resolved,
			ModelDir:  modelDir,
			Suffix:    suffix,
		}
	}
	return resolved, nil
}

// baseName follows basename(3): trailing slashes are ignored and "/" stays "/".
func baseName(p string) string {
	if p == "" {
		return "."
	}
	return filepath.Base(filepath.ToSlash(p))
}
