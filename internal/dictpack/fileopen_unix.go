//go:build !windows

package dictpack

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/akorchak/yodot/internal/errors"
)

// createNoFollow opens the bundle path for writing with O_NOFOLLOW so a
// symlink planted at the output path is never followed. O_CLOEXEC prevents
// FD leaks across exec.
func createNoFollow(path string) (*os.File, error) {
	fd, err := syscall.Open(path, syscall.O_WRONLY|syscall.O_CREAT|syscall.O_TRUNC|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, 0644)
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, errors.NewInvalidRequest("cannot write bundle to a symlink")
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}

// openNoFollow opens the bundle path for reading with O_NOFOLLOW.
func openNoFollow(path string) (*os.File, error) {
	fd, err := syscall.Open(path, syscall.O_RDONLY|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, 0)
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, errors.NewInvalidRequest("cannot read bundle from a symlink")
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}
