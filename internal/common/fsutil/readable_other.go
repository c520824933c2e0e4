//go:build !unix

package fsutil

import "os"

// Readable reports whether path can be opened for reading.
func Readable(path string) bool {
	if path == "" || isDir(path) {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
