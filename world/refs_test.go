package world

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/worldtools/mapkit/nbt"
)

func inventoryTree(mapID int32) nbt.Compound {
	return nbt.Compound{
		"Inventory": nbt.List{Elem: nbt.TypeCompound, Items: []nbt.Tag{
			nbt.Compound{
				"id":  nbt.String("minecraft:filled_map"),
				"tag": nbt.Compound{"map": nbt.Int(mapID)},
			},
		}},
	}
}

// setupRefWorld builds a world whose files reference map ids 3, 5 and 6
// from every source kind the scan covers, plus decoys in the excluded
// data files.
func setupRefWorld(t *testing.T) *Store {
	t.Helper()
	s := newTestWorld(t)
	dir := s.Dir()

	writeTagFile(t, filepath.Join(dir, "level.dat"), "", nbt.Compound{
		"Data": nbt.Compound{"Player": inventoryTree(3)},
	}, true)
	writeTagFile(t, filepath.Join(dir, "playerdata", "ab-cd.dat"), "", inventoryTree(5), true)
	writeTagFile(t, filepath.Join(dir, "data", "custom.dat"), "", nbt.Compound{
		"map": nbt.Int(5),
	}, false)

	// Excluded: the id counter and map records themselves both carry an
	// Int named "map" that must never register as a reference.
	require.NoError(t, s.WriteIDCounter(9))
	record := recordTree(2586, make([]byte, 16384))
	record["map"] = nbt.Int(9)
	writeTagFile(t, s.MapPath(9), "", record, true)

	writeRegionFile(t, filepath.Join(dir, "region", "r.0.0.mca"), map[int]testChunk{
		2: {scheme: compressZlib, root: chunkTree(3)},
	})
	writeRegionFile(t, filepath.Join(dir, "entities", "r.0.0.mca"), map[int]testChunk{
		0: {scheme: compressGZip, root: chunkTree(6)},
	})
	writeRegionFile(t, filepath.Join(dir, "DIM-1", "region", "r.-1.0.mca"), map[int]testChunk{
		5: {scheme: compressZlib, root: chunkTree(3)},
	})
	return s
}

func TestWalkRefs(t *testing.T) {
	s := setupRefWorld(t)

	ix, err := s.WalkRefs(context.Background())
	require.NoError(t, err)
	require.False(t, ix.Partial)
	require.Equal(t, 6, ix.Total())

	require.True(t, ix.Has(3))
	require.True(t, ix.Has(5))
	require.True(t, ix.Has(6))
	require.False(t, ix.Has(9))

	// Plain files are scanned before region files, dimension order as
	// listed, so the ref order per id is stable.
	refs := ix.Refs[3]
	require.Len(t, refs, 3)
	require.Equal(t, Ref{
		File:  "level.dat",
		Chunk: -1,
		Path:  "Data.Player.Inventory[0].tag.map",
	}, refs[0])
	require.Equal(t, Ref{
		File:  "region/r.0.0.mca",
		Chunk: 2,
		Path:  "Level.TileEntities[0].Items[0].tag.map",
	}, refs[1])
	require.Equal(t, "DIM-1/region/r.-1.0.mca", refs[2].File)

	require.Len(t, ix.Refs[5], 2)
	require.Equal(t, "playerdata/ab-cd.dat", ix.Refs[5][0].File)
	require.Equal(t, "data/custom.dat", ix.Refs[5][1].File)
	require.Equal(t, "map", ix.Refs[5][1].Path)
}

func TestWalkRefsCancelled(t *testing.T) {
	s := setupRefWorld(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ix, err := s.WalkRefs(ctx)
	require.NoError(t, err)
	require.True(t, ix.Partial)
	require.Zero(t, ix.Total())
}

func TestWalkRefsUnreadableFileMarksPartial(t *testing.T) {
	s := setupRefWorld(t)
	junk := filepath.Join(s.Dir(), "playerdata", "corrupt.dat")
	require.NoError(t, os.WriteFile(junk, []byte{0x1f, 0x8b, 0x00}, 0o644))

	ix, err := s.WalkRefs(context.Background())
	require.NoError(t, err)
	require.True(t, ix.Partial)
	// Everything readable is still collected.
	require.Equal(t, 6, ix.Total())
}

func TestRewriteRefPlainFile(t *testing.T) {
	s := setupRefWorld(t)

	require.NoError(t, s.RewriteRef(Ref{
		File:  "playerdata/ab-cd.dat",
		Chunk: -1,
		Path:  "Inventory[0].tag.map",
	}, 2))
	require.NoError(t, s.RewriteRef(Ref{
		File:  "data/custom.dat",
		Chunk: -1,
		Path:  "map",
	}, 2))

	// Each file keeps its original framing.
	raw, err := os.ReadFile(filepath.Join(s.Dir(), "playerdata", "ab-cd.dat"))
	require.NoError(t, err)
	require.True(t, raw[0] == 0x1f && raw[1] == 0x8b)
	raw, err = os.ReadFile(filepath.Join(s.Dir(), "data", "custom.dat"))
	require.NoError(t, err)
	require.False(t, raw[0] == 0x1f && raw[1] == 0x8b)

	ix, err := s.WalkRefs(context.Background())
	require.NoError(t, err)
	require.False(t, ix.Has(5))
	require.Len(t, ix.Refs[2], 2)
}

func TestRewriteRefRegionChunk(t *testing.T) {
	s := setupRefWorld(t)

	require.NoError(t, s.RewriteRef(Ref{
		File:  "region/r.0.0.mca",
		Chunk: 2,
		Path:  "Level.TileEntities[0].Items[0].tag.map",
	}, 7))

	ix, err := s.WalkRefs(context.Background())
	require.NoError(t, err)
	require.True(t, ix.Has(7))
	require.Len(t, ix.Refs[3], 2)
}

func TestRewriteRefBadPath(t *testing.T) {
	s := setupRefWorld(t)

	err := s.RewriteRef(Ref{
		File:  "data/custom.dat",
		Chunk: -1,
		Path:  "nope.missing",
	}, 2)
	require.ErrorIs(t, err, nbt.ErrPathNotFound)
}
