package mapitem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func defragMaps(t *testing.T, ids ...int) []*Map {
	t.Helper()
	maps := make([]*Map, 0, len(ids))
	for _, id := range ids {
		maps = append(maps, testMap(t, id, 2586, []byte{0}))
	}
	return maps
}

func TestPlanDefragFillsHoles(t *testing.T) {
	moves := PlanDefrag(defragMaps(t, 0, 2, 3, 5))
	require.Equal(t, []Move{{From: 2, To: 1}, {From: 3, To: 2}, {From: 5, To: 3}}, moves)
}

func TestPlanDefragCompactStore(t *testing.T) {
	require.Empty(t, PlanDefrag(defragMaps(t, 0, 1, 2, 3)))
	require.Empty(t, PlanDefrag(nil))
}

func TestPlanDefragLeadingHole(t *testing.T) {
	moves := PlanDefrag(defragMaps(t, 3, 4))
	require.Equal(t, []Move{{From: 3, To: 0}, {From: 4, To: 1}}, moves)
}

func TestPlanDefragInputOrderIrrelevant(t *testing.T) {
	moves := PlanDefrag(defragMaps(t, 5, 0, 3, 2))
	require.Equal(t, []Move{{From: 2, To: 1}, {From: 3, To: 2}, {From: 5, To: 3}}, moves)
}

func TestPlanDefragMovesNeverCollide(t *testing.T) {
	// Executing in plan order, every destination is free by the time its
	// move runs: either below all remaining ids or vacated earlier.
	moves := PlanDefrag(defragMaps(t, 1, 2, 4, 7, 8))
	occupied := map[int]bool{1: true, 2: true, 4: true, 7: true, 8: true}
	for _, mv := range moves {
		require.True(t, occupied[mv.From], "move from unoccupied id %d", mv.From)
		require.False(t, occupied[mv.To], "move onto occupied id %d", mv.To)
		delete(occupied, mv.From)
		occupied[mv.To] = true
	}
	for want := 0; want < 5; want++ {
		require.True(t, occupied[want], "id %d left unfilled", want)
	}
}
