package movegen

import (
	"sort"

	"github.com/samber/lo"

	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/move"
)

// Placement is one entry of a GenPlacements result.
type Placement struct {
	Board board.Board
	Move  move.Move
}

// Sorted flattens a placement map into a slice ordered by move, so that
// callers iterating it behave the same on every run.
func Sorted(placements map[board.Board]move.Move) []Placement {
	out := lo.MapToSlice(placements, func(b board.Board, m move.Move) Placement {
		return Placement{Board: b, Move: m}
	})
	sort.Slice(out, func(i, j int) bool {
		return move.Less(out[i].Move, out[j].Move)
	})
	return out
}
