//go:build windows

package world

import (
	"os"

	"golang.org/x/sys/windows"
)

// fdatasync flushes file contents to disk using FlushFileBuffers.
func fdatasync(f *os.File) error {
	return windows.FlushFileBuffers(windows.Handle(f.Fd()))
}
