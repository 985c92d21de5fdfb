//go:build !linux && !freebsd && !darwin && !windows

package world

import "os"

func fdatasync(f *os.File) error {
	return f.Sync()
}
