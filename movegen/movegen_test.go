package movegen

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/move"
	"github.com/domino14/stacker/piece"
)

func checkPlacements(t *testing.T, st *game.State, placements map[board.Board]move.Move) {
	t.Helper()
	assert.LessOrEqual(t, len(placements), MaxPlacements)
	for b, m := range placements {
		res, _ := m.Result(st.Board, st.Active(), st.HoldPiece())
		assert.Equal(t, b, res, "move %v", m)
	}
}

func TestEmptyQueue(t *testing.T) {
	is := is.New(t)
	st := &game.State{Board: board.MustFromRows("XXXX......"), Hold: piece.T}
	is.Equal(len(GenPlacements(st)), 0)
}

func TestSinglePieceEmptyBoard(t *testing.T) {
	is := is.New(t)
	// A T on an empty board: 8 flat-up, 8 flat-down and 9 + 9 upright
	// positions. No hold piece is available.
	st := &game.State{Queue: []piece.Piece{piece.T}}
	placements := GenPlacements(st)
	is.Equal(len(placements), 34)
	checkPlacements(t, st, placements)
	for _, m := range placements {
		is.True(!m.Hold)
	}
}

func TestHoldBringsInNextPiece(t *testing.T) {
	is := is.New(t)
	// O: 9 columns. Held I: 7 flat + 10 upright.
	st := &game.State{Queue: []piece.Piece{piece.O, piece.I}}
	placements := GenPlacements(st)
	is.Equal(len(placements), 26)
	checkPlacements(t, st, placements)

	held := 0
	for _, m := range placements {
		if m.Hold {
			held++
		}
	}
	is.Equal(held, 17)
}

func TestHoldUsesHeldPiece(t *testing.T) {
	is := is.New(t)
	st := &game.State{Queue: []piece.Piece{piece.O, piece.T}, Hold: piece.O}
	placements := GenPlacements(st)
	// Holding O for O changes nothing, so every board is found without hold.
	is.Equal(len(placements), 9)
	for _, m := range placements {
		is.True(!m.Hold)
	}
}

func TestBlockedRotationsContributeNothing(t *testing.T) {
	is := is.New(t)
	var b board.Board
	for y := 2; y < board.Height; y++ {
		b[y] = board.FullRow
	}
	st := &game.State{Board: b, Queue: []piece.Piece{piece.T}}
	placements := GenPlacements(st)
	is.Equal(len(placements), 8)
	for _, m := range placements {
		is.Equal(m.Rot, uint8(0))
	}
	checkPlacements(t, st, placements)
}

func TestBoundedOnClutteredBoards(t *testing.T) {
	boards := []board.Board{
		board.MustFromRows(
			"X...X....X",
			"XX.XXX..XX",
			"XXXXXX.XXX",
		),
		board.MustFromRows(
			".........X",
			"X.......XX",
			"XX.X.X.XXX",
			"XXXXXXXX.X",
		),
	}
	for _, b := range boards {
		for _, p := range piece.All {
			st := &game.State{Board: b, Queue: []piece.Piece{p, piece.I}, Hold: piece.None}
			checkPlacements(t, st, GenPlacements(st))
			st.Hold = piece.S
			checkPlacements(t, st, GenPlacements(st))
		}
	}
}

func TestInputStateUntouched(t *testing.T) {
	is := is.New(t)
	st := &game.State{Board: board.MustFromRows("XX..XX...."), Queue: []piece.Piece{piece.L, piece.J}}
	before := st.Clone()
	GenPlacements(st)
	is.Equal(st, before)
}

func TestSorted(t *testing.T) {
	st := &game.State{Queue: []piece.Piece{piece.O, piece.I}}
	sorted := Sorted(GenPlacements(st))
	assert.Len(t, sorted, 26)
	for i := 1; i < len(sorted); i++ {
		assert.True(t, move.Less(sorted[i-1].Move, sorted[i].Move))
	}
}

func TestSpawnColumnFoundByRightSweep(t *testing.T) {
	is := is.New(t)
	// The placements left in the spawn column with no shift are only
	// reached because the right sweep starts where the left sweep ended.
	st := &game.State{Queue: []piece.Piece{piece.T}}
	spawn := move.New()
	spawn.ApplyKey(move.KeyHardDrop, st.Board, piece.T, piece.None)
	b, _ := spawn.Result(st.Board, piece.T, piece.None)

	placements := GenPlacements(st)
	m, ok := placements[b]
	is.True(ok)
	is.Equal(m, spawn)

	// A sweep that goes right from spawn never locks the spawn column.
	rightOnly := move.New()
	for rightOnly.ApplyKey(move.KeyRight, st.Board, piece.T, piece.None) {
		locked := rightOnly
		locked.ApplyKey(move.KeyHardDrop, st.Board, piece.T, piece.None)
		lb, _ := locked.Result(st.Board, piece.T, piece.None)
		is.True(lb != b)
	}
}
