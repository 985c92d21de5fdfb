package nbt

import "errors"

var (
	// ErrCorrupt reports input that violates the binary format.
	ErrCorrupt = errors.New("nbt: corrupt data")

	// ErrTooDeep reports nesting beyond the supported depth limit.
	ErrTooDeep = errors.New("nbt: nesting too deep")

	// ErrUnknownType reports a tag type byte outside the defined range.
	ErrUnknownType = errors.New("nbt: unknown tag type")

	// ErrBadPath reports a path expression that does not parse.
	ErrBadPath = errors.New("nbt: malformed path")

	// ErrPathNotFound reports a path that does not resolve in the tree.
	ErrPathNotFound = errors.New("nbt: path not found")
)
