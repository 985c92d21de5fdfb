package mapitem

import "sort"

// Move relocates one record during id defragmentation.
type Move struct {
	From, To int
}

// PlanDefrag computes the id moves that compact the id space. Records
// are ranked by ascending id; any record whose id exceeds its 0-based
// rank moves down to the rank. Executed in plan order the moves never
// collide: each target id is either below every remaining id or was
// vacated by an earlier move. Records already at their rank stay put, so
// a compact store plans nothing.
func PlanDefrag(maps []*Map) []Move {
	ids := make([]int, 0, len(maps))
	for _, m := range maps {
		ids = append(ids, m.ID())
	}
	sort.Ints(ids)

	var moves []Move
	for rank, id := range ids {
		if id != rank {
			moves = append(moves, Move{From: id, To: rank})
		}
	}
	return moves
}
