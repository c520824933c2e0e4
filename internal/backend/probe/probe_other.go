//go:build !(darwin || linux || freebsd)

package probe

// Loadable always reports false where the dynamic loader is not reachable.
func Loadable(string) bool { return false }
