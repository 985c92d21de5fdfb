package world

import "errors"

var (
	// ErrNotWorld reports a directory that does not look like a world
	// (no level.dat).
	ErrNotWorld = errors.New("world: not a world directory")

	// ErrNotFound reports a record id with no file in the store.
	ErrNotFound = errors.New("world: map not found")

	// ErrIDInUse reports a rename onto an id that still has a file.
	ErrIDInUse = errors.New("world: target id already in use")

	// ErrRegion reports a region file that violates the format.
	ErrRegion = errors.New("world: malformed region file")
)
