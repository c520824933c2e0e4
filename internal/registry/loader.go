// Package registry lists the converted models present in a model directory,
// keyed by the name an application would request.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"neuronshim/internal/common/fsutil"
)

// Model is one converted model file.
type Model struct {
	// Name is what the application asks for, e.g. detect.dla.
	Name string `json:"name"`
	// Path is the absolute path of the converted file, e.g. /opt/models/detect.dla.onnx.
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// LoadDir scans dir for files ending in suffix (case-insensitive) and returns
// them sorted by name. Directories and unreadable files are skipped.
func LoadDir(dir, suffix string) ([]Model, error) {
	if suffix == "" {
		return nil, fmt.Errorf("empty model suffix")
	}
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	lower := strings.ToLower(suffix)
	var models []Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) <= len(suffix) || !strings.HasSuffix(strings.ToLower(name), lower) {
			continue
		}
		p := filepath.Join(abs, name)
		if !fsutil.Readable(p) {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		models = append(models, Model{Name: name[:len(name)-len(suffix)], Path: p, Size: size})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models, nil
}
