package mapitem

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/worldtools/mapkit/nbt"
)

func TestApplyPixelsCopyOnWrite(t *testing.T) {
	m := testMap(t, 1, 2586, []byte{0, 1, 2})
	aliased := m.Colors()

	require.NoError(t, m.ApplyPixels([]PixelChange{{Index: 0, Value: 9}}))

	// The pre-apply view is untouched; the tree holds a fresh array of
	// the same concrete representation.
	require.Equal(t, []byte{0, 1, 2}, aliased)
	require.Equal(t, []byte{9, 1, 2}, m.Colors())
	_, ok := m.Root()["data"].(nbt.Compound)["colors"].(nbt.ByteArray)
	require.True(t, ok)
}

func TestApplyPixelsOrderIndependent(t *testing.T) {
	changes := []PixelChange{{Index: 2, Value: 5}, {Index: 0, Value: 3}}

	a := testMap(t, 1, 2586, []byte{0, 1, 0})
	require.NoError(t, a.ApplyPixels(changes))

	b := testMap(t, 2, 2586, []byte{0, 1, 0})
	require.NoError(t, b.ApplyPixels([]PixelChange{changes[1], changes[0]}))

	require.Equal(t, a.Colors(), b.Colors())
}

func TestApplyPixelsOutOfRange(t *testing.T) {
	m := testMap(t, 1, 2586, []byte{0, 1})

	err := m.ApplyPixels([]PixelChange{{Index: 0, Value: 9}, {Index: 7, Value: 1}})
	require.ErrorIs(t, err, ErrPixelRange)
	// Nothing was installed, the earlier in-range change included.
	require.Equal(t, []byte{0, 1}, m.Colors())

	err = m.ApplyPixels([]PixelChange{{Index: -1, Value: 1}})
	require.ErrorIs(t, err, ErrPixelRange)
}

func TestApplyPixelsNoChanges(t *testing.T) {
	m := testMap(t, 1, 2586, []byte{4, 5})
	require.NoError(t, m.ApplyPixels(nil))
	require.Equal(t, []byte{4, 5}, m.Colors())
}
