//go:build linux || freebsd

package world

import (
	"os"

	"golang.org/x/sys/unix"
)

// fdatasync flushes file contents without forcing a metadata write.
//
// On Linux/FreeBSD, fdatasync() provides sufficient guarantees for a
// file that is about to be renamed into place.
func fdatasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
