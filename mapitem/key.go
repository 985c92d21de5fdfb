package mapitem

import "fmt"

// Dimension identifies the realm a map renders. The values match the
// legacy integer encoding older worlds store.
type Dimension int8

const (
	Nether    Dimension = -1
	Overworld Dimension = 0
	End       Dimension = 1
)

// String returns the short realm name.
func (d Dimension) String() string {
	switch d {
	case Nether:
		return "the_nether"
	case Overworld:
		return "overworld"
	case End:
		return "the_end"
	default:
		return fmt.Sprintf("dimension(%d)", int8(d))
	}
}

// MarshalText renders the realm name, keeping identity keys readable in
// JSON output.
func (d Dimension) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Center is the world position a map is centered on. Maps are flat, so
// only X and Z matter.
type Center struct {
	X int32 `json:"x"`
	Z int32 `json:"z"`
}

func (c Center) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Z) }

// Category classifies a map by how it was created. It is derived from
// the scale and unlimited-tracking fields; records where those cannot be
// read are Unknown.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryPlayer
	CategoryExplorer
	CategoryTreasure
)

var categoryNames = [...]string{"Unknown", "Player", "Explorer", "Treasure"}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}

// Key identifies the logical map a record renders. Two records with
// equal keys are candidate duplicates. Pixels are deliberately excluded:
// the same map saved at different times differs only in raster content.
// Key is comparable and usable as a map key.
type Key struct {
	Dimension Dimension `json:"dimension"`
	Center    Center    `json:"center"`
	Explorer  bool      `json:"explorer"`
	Scale     int8      `json:"scale"`
}

func (k Key) String() string {
	kind := "player"
	if k.Explorer {
		kind = "explorer"
	}
	return fmt.Sprintf("%s %s %s scale %d", k.Dimension, k.Center, kind, k.Scale)
}
