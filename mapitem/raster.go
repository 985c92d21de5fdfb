package mapitem

import (
	"bytes"
	"fmt"

	"github.com/worldtools/mapkit/nbt"
)

const (
	// RasterLen is the cell count of a standard map raster, 128 by 128.
	RasterLen = 128 * 128

	// BlankPixel is the sentinel for an unset raster cell.
	BlankPixel byte = 0
)

// PixelChange sets a single raster cell: write Value at Index. Changes
// produced by TryMerge always target cells that are blank on the target
// side and carry unique indices within one result.
type PixelChange struct {
	Index int
	Value byte
}

// ApplyPixels writes changes into the map's raster under copy-on-write:
// the colors array is cloned, all changes land in the clone, and only
// then does the clone replace the array in the tree, still as a byte
// array tag. The original cells are never written, so aliased views such
// as diff results stay intact. An out-of-range index fails the whole
// call before the tree is touched.
func (m *Map) ApplyPixels(changes []PixelChange) error {
	if len(changes) == 0 {
		return nil
	}
	clone := bytes.Clone(m.Colors())
	for _, ch := range changes {
		if ch.Index < 0 || ch.Index >= len(clone) {
			return fmt.Errorf("%w: index %d in raster of %d cells",
				ErrPixelRange, ch.Index, len(clone))
		}
		clone[ch.Index] = ch.Value
	}
	m.data()["colors"] = nbt.ByteArray(clone)
	return nil
}
