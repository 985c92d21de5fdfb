//go:build windows

package mmfile

import (
	"os"
)

// Map reads the entire file into memory. Windows file locking interacts
// badly with a mapping held across the rename-based rewrites the store
// performs, so the scan works from a private copy there.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
