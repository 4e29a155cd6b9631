//go:build windows

package dictpack

import "os"

// createNoFollow opens the bundle path for writing. On Windows, O_NOFOLLOW
// is not available; creating symlinks there requires elevated privileges, so
// the plain open is acceptable.
func createNoFollow(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

// openNoFollow opens the bundle path for reading. See createNoFollow.
func openNoFollow(path string) (*os.File, error) {
	return os.Open(path)
}
