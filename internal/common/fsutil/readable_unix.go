//go:build unix

package fsutil

import "golang.org/x/sys/unix"

// Readable reports whether the current process may open path for reading.
// Directories are rejected; a model must be a regular file.
func Readable(path string) bool {
	if path == "" || isDir(path) {
		return false
	}
	return unix.Access(path, unix.R_OK) == nil
}
