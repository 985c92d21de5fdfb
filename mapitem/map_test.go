package mapitem

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/worldtools/mapkit/nbt"
)

// recordTree builds a plausible record fixture. Tests mutate the result
// to shape the case they need.
func recordTree(dataVersion int32, colors []byte) nbt.Compound {
	return nbt.Compound{
		"DataVersion": nbt.Int(dataVersion),
		"data": nbt.Compound{
			"scale":             nbt.Byte(0),
			"dimension":         nbt.String("minecraft:overworld"),
			"xCenter":           nbt.Int(64),
			"zCenter":           nbt.Int(-64),
			"unlimitedTracking": nbt.Byte(0),
			"trackingPosition":  nbt.Byte(1),
			"locked":            nbt.Byte(0),
			"colors":            nbt.ByteArray(colors),
			"banners":           nbt.List{Elem: nbt.TypeEnd},
			"frames":            nbt.List{Elem: nbt.TypeEnd},
		},
	}
}

func testMap(t *testing.T, id int, dataVersion int32, colors []byte) *Map {
	t.Helper()
	m, err := New(id, recordTree(dataVersion, colors))
	require.NoError(t, err)
	return m
}

func buildMap(t *testing.T, id int, mutate func(root nbt.Compound)) *Map {
	t.Helper()
	root := recordTree(2586, []byte{0, 0, 0, 0})
	if mutate != nil {
		mutate(root)
	}
	m, err := New(id, root)
	require.NoError(t, err)
	return m
}

func TestNewValidation(t *testing.T) {
	_, err := New(-1, recordTree(1, []byte{0}))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = New(1, nbt.Compound{"DataVersion": nbt.Int(1)})
	require.ErrorIs(t, err, ErrMalformed)

	root := recordTree(1, []byte{0})
	delete(root["data"].(nbt.Compound), "colors")
	_, err = New(1, root)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestAccessors(t *testing.T) {
	m := testMap(t, 12, 2586, []byte{1, 2, 3})

	require.Equal(t, 12, m.ID())
	require.Equal(t, 2586, m.DataVersion())
	require.Equal(t, []byte{1, 2, 3}, m.Colors())

	scale, ok := m.Scale()
	require.True(t, ok)
	require.Equal(t, int8(0), scale)

	dim, ok := m.Dimension()
	require.True(t, ok)
	require.Equal(t, Overworld, dim)

	center, ok := m.Center()
	require.True(t, ok)
	require.Equal(t, Center{X: 64, Z: -64}, center)

	require.False(t, m.UnlimitedTracking())
	require.Equal(t, CategoryPlayer, m.Category())
}

func TestDimensionEncodings(t *testing.T) {
	cases := []struct {
		tag  nbt.Tag
		want Dimension
		ok   bool
	}{
		{nbt.String("minecraft:overworld"), Overworld, true},
		{nbt.String("minecraft:the_nether"), Nether, true},
		{nbt.String("minecraft:the_end"), End, true},
		{nbt.String("minecraft:custom"), 0, false},
		{nbt.Int(-1), Nether, true},
		{nbt.Int(1), End, true},
		{nbt.Byte(0), Overworld, true},
		{nbt.Int(7), 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		m := buildMap(t, 1, func(root nbt.Compound) {
			data := root["data"].(nbt.Compound)
			if c.tag == nil {
				delete(data, "dimension")
			} else {
				data["dimension"] = c.tag
			}
		})
		dim, ok := m.Dimension()
		require.Equal(t, c.ok, ok)
		if c.ok {
			require.Equal(t, c.want, dim)
		}
	}
}

func TestCategoryDerivation(t *testing.T) {
	cases := []struct {
		name      string
		scale     nbt.Tag // nil removes the field
		unlimited nbt.Byte
		want      Category
	}{
		{"player", nbt.Byte(0), 0, CategoryPlayer},
		{"player scale 1", nbt.Byte(1), 0, CategoryPlayer},
		{"treasure", nbt.Byte(1), 1, CategoryTreasure},
		{"explorer scale 2", nbt.Byte(2), 1, CategoryExplorer},
		{"explorer scale 0", nbt.Byte(0), 1, CategoryExplorer},
		{"unknown without scale", nil, 1, CategoryUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := buildMap(t, 1, func(root nbt.Compound) {
				data := root["data"].(nbt.Compound)
				data["unlimitedTracking"] = c.unlimited
				if c.scale == nil {
					delete(data, "scale")
				} else {
					data["scale"] = c.scale
				}
			})
			require.Equal(t, c.want, m.Category())
		})
	}
}

func TestKeyExcludesPixels(t *testing.T) {
	a := testMap(t, 1, 2586, []byte{0, 0, 0})
	b := testMap(t, 2, 2586, []byte{9, 9, 9})

	ka, ok := a.Key()
	require.True(t, ok)
	kb, ok := b.Key()
	require.True(t, ok)
	require.Equal(t, ka, kb)
}

func TestKeyUnreadable(t *testing.T) {
	m := buildMap(t, 1, func(root nbt.Compound) {
		delete(root["data"].(nbt.Compound), "xCenter")
	})
	_, ok := m.Key()
	require.False(t, ok)
}

func TestMapString(t *testing.T) {
	m := testMap(t, 7, 2586, []byte{0})
	s := m.String()
	require.Contains(t, s, "map   7")
	require.Contains(t, s, "Player")
	require.Contains(t, s, "overworld")
	require.Contains(t, s, "dv 2586")
}
