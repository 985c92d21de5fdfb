package mapitem

import (
	"fmt"

	"github.com/worldtools/mapkit/nbt"
)

// Map is one map-item record: a non-negative id assigned by the store
// and the decoded record tree. Records are read-only once built; the one
// sanctioned mutation is ApplyPixels, which replaces the raster under
// copy-on-write.
type Map struct {
	id   int
	root nbt.Compound
}

// New wraps a decoded record tree. It validates only what the engine
// relies on, a data compound holding a colors byte array; identity
// fields are read leniently so a malformed record still lists and shows,
// it just never groups as a duplicate.
func New(id int, root nbt.Compound) (*Map, error) {
	if id < 0 {
		return nil, fmt.Errorf("%w: negative id %d", ErrMalformed, id)
	}
	data, ok := root["data"].(nbt.Compound)
	if !ok {
		return nil, fmt.Errorf("%w: map %d has no data compound", ErrMalformed, id)
	}
	if _, ok := data["colors"].(nbt.ByteArray); !ok {
		return nil, fmt.Errorf("%w: map %d has no colors array", ErrMalformed, id)
	}
	return &Map{id: id, root: root}, nil
}

// ID returns the record's id.
func (m *Map) ID() int { return m.id }

// Root returns the underlying record tree, for diffing and saving. Do
// not mutate it directly; pixel writes go through ApplyPixels.
func (m *Map) Root() nbt.Compound { return m.root }

func (m *Map) data() nbt.Compound {
	return m.root["data"].(nbt.Compound)
}

// DataVersion returns the schema stamp of the save that produced the
// record. Records predating the field report 0, which sorts oldest.
func (m *Map) DataVersion() int {
	v, _ := m.root["DataVersion"].(nbt.Int)
	return int(v)
}

// Scale returns the zoom level, ok=false when the field is missing or
// mistyped.
func (m *Map) Scale() (int8, bool) {
	v, ok := m.data()["scale"].(nbt.Byte)
	return int8(v), ok
}

// Dimension returns the realm the map renders. Both the modern
// namespaced string and the legacy integer forms are accepted.
func (m *Map) Dimension() (Dimension, bool) {
	switch v := m.data()["dimension"].(type) {
	case nbt.String:
		switch string(v) {
		case "minecraft:overworld":
			return Overworld, true
		case "minecraft:the_nether":
			return Nether, true
		case "minecraft:the_end":
			return End, true
		}
	case nbt.Int:
		if v >= -1 && v <= 1 {
			return Dimension(v), true
		}
	case nbt.Byte:
		if v >= -1 && v <= 1 {
			return Dimension(v), true
		}
	}
	return 0, false
}

// Center returns the map's center position.
func (m *Map) Center() (Center, bool) {
	x, xok := m.data()["xCenter"].(nbt.Int)
	z, zok := m.data()["zCenter"].(nbt.Int)
	if !xok || !zok {
		return Center{}, false
	}
	return Center{X: int32(x), Z: int32(z)}, true
}

// UnlimitedTracking reports the explorer-map flag. Records predating the
// field are player maps, so missing means false.
func (m *Map) UnlimitedTracking() bool {
	v, ok := m.data()["unlimitedTracking"].(nbt.Byte)
	return ok && v == 1
}

// Category derives the map kind: Treasure when unlimited tracking with
// scale 1, Explorer for other unlimited-tracking maps, Player otherwise.
// Unknown when scale cannot be read.
func (m *Map) Category() Category {
	scale, ok := m.Scale()
	if !ok {
		return CategoryUnknown
	}
	if !m.UnlimitedTracking() {
		return CategoryPlayer
	}
	if scale == 1 {
		return CategoryTreasure
	}
	return CategoryExplorer
}

// Key derives the identity key that marks candidate duplicates. ok is
// false when any constituent field cannot be read; such records never
// group.
func (m *Map) Key() (Key, bool) {
	dim, ok := m.Dimension()
	if !ok {
		return Key{}, false
	}
	center, ok := m.Center()
	if !ok {
		return Key{}, false
	}
	scale, ok := m.Scale()
	if !ok {
		return Key{}, false
	}
	return Key{
		Dimension: dim,
		Center:    center,
		Explorer:  m.UnlimitedTracking(),
		Scale:     scale,
	}, true
}

// Colors returns the live raster cells. Treat the slice as read-only;
// diff results and other records may alias it. Writes go through
// ApplyPixels.
func (m *Map) Colors() []byte {
	colors, _ := m.data()["colors"].(nbt.ByteArray)
	return colors
}

// String renders a one-line summary for listings.
func (m *Map) String() string {
	key, ok := m.Key()
	if !ok {
		return fmt.Sprintf("map %3d: %-8s (identity unreadable)", m.id, m.Category())
	}
	return fmt.Sprintf("map %3d: %-8s %-10s scale %d center %s dv %d",
		m.id, m.Category(), key.Dimension, key.Scale, key.Center, m.DataVersion())
}
