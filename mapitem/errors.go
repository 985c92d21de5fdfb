package mapitem

import "errors"

var (
	// ErrMalformed reports a record tree missing the pieces the engine
	// relies on: the data compound or the colors array.
	ErrMalformed = errors.New("mapitem: malformed record")

	// ErrStructuralMismatch marks a pair of records that refuse to
	// merge: they differ outside the pixel raster, run backward in
	// dataVersion, or carry conflicting non-blank pixels.
	ErrStructuralMismatch = errors.New("mapitem: structural mismatch")

	// ErrPixelRange reports a pixel change aimed outside the raster.
	ErrPixelRange = errors.New("mapitem: pixel index out of range")
)
