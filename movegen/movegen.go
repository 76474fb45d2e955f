// Package movegen enumerates the distinct boards the active piece can
// produce. The search is deliberately bounded: for every hold choice and
// rotation it rotates first and then slides as far as it can, rather
// than searching arbitrary key orders.
package movegen

import (
	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/move"
)

// MaxPlacements bounds the size of a GenPlacements result: hold choices x
// rotations x directions x shifts.
const MaxPlacements = 2 * 4 * 2 * board.Width

// rotationKeys are tried in this order; ok=false is "don't rotate".
var rotationKeys = [4]struct {
	key move.Key
	ok  bool
}{
	{ok: false},
	{key: move.KeyCw, ok: true},
	{key: move.Key180, ok: true},
	{key: move.KeyCcw, ok: true},
}

var directions = [2]move.Key{move.KeyLeft, move.KeyRight}

// GenPlacements maps every distinct resulting board to one hard-dropped
// move that produces it. The first move found for a board is kept.
//
// When the hold slot is empty, hold brings in Queue[1]; the caller must
// provide it (a one-piece queue simply generates no hold placements).
func GenPlacements(st *game.State) map[board.Board]move.Move {
	placements := make(map[board.Board]move.Move)
	if len(st.Queue) == 0 {
		return placements
	}
	active, hold := st.Active(), st.HoldPiece()

	for _, useHold := range [2]bool{false, true} {
		for _, rot := range rotationKeys {
			m := move.New()
			if useHold && !m.ApplyKey(move.KeyHold, st.Board, active, hold) {
				continue
			}
			if rot.ok && !m.ApplyKey(rot.key, st.Board, active, hold) {
				continue
			}
			// The right sweep starts where the left one stopped, so together
			// they cover every column this orientation can reach. m itself is
			// never dropped, only copies of it.
			for _, dir := range directions {
				for m.ApplyKey(dir, st.Board, active, hold) {
					locked := m
					locked.ApplyKey(move.KeyHardDrop, st.Board, active, hold)
					b, _ := locked.Result(st.Board, active, hold)
					if _, ok := placements[b]; !ok {
						placements[b] = locked
					}
				}
			}
		}
	}
	return placements
}
