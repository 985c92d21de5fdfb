//go:build darwin

package world

import (
	"os"

	"golang.org/x/sys/unix"
)

// fdatasync flushes file contents to disk.
//
// macOS doesn't have fdatasync, use fsync.
func fdatasync(f *os.File) error {
	return unix.Fsync(int(f.Fd()))
}
