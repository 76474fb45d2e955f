package move

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/piece"
)

func TestShiftToWalls(t *testing.T) {
	is := is.New(t)
	var b board.Board

	m := New()
	lefts := 0
	for m.ApplyKey(KeyLeft, b, piece.T, piece.None) {
		lefts++
	}
	is.Equal(lefts, 3)
	is.Equal(m.X, int8(0))

	m = New()
	rights := 0
	for m.ApplyKey(KeyRight, b, piece.T, piece.None) {
		rights++
	}
	is.Equal(rights, 4)
	is.Equal(m.X, int8(7))
}

func TestFailedKeyLeavesMoveUnchanged(t *testing.T) {
	is := is.New(t)
	b := board.MustFromRows()
	b.Set(2, 1)
	m := New()
	before := m
	// T in spawn covers columns 3..5 on rows 0..1; a block at (2,1) stops
	// it moving left.
	is.True(!m.ApplyKey(KeyLeft, b, piece.T, piece.None))
	is.Equal(m, before)
}

func TestHardDropAndResult(t *testing.T) {
	is := is.New(t)
	var b board.Board
	m := New()
	is.True(m.ApplyKey(KeyHardDrop, b, piece.T, piece.None))
	is.Equal(m.Y, int8(18))

	res, cleared := m.Result(b, piece.T, piece.None)
	is.Equal(len(cleared), 0)
	is.Equal(res, board.MustFromRows(
		"....X.....",
		"...XXX....",
	))
}

func TestResultClearsLines(t *testing.T) {
	is := is.New(t)
	b := board.MustFromRows("XXX....XXX")
	m := New()
	is.True(m.ApplyKey(KeyHardDrop, b, piece.I, piece.None))
	res, cleared := m.Result(b, piece.I, piece.None)
	is.Equal(cleared, []int{19})
	is.True(res.IsEmpty())
}

func TestHold(t *testing.T) {
	is := is.New(t)
	var b board.Board
	m := New()
	is.True(!m.ApplyKey(KeyHold, b, piece.T, piece.None))

	m.ApplyKey(KeyLeft, b, piece.T, piece.I)
	is.True(m.ApplyKey(KeyHold, b, piece.T, piece.I))
	is.Equal(m, Move{Hold: true, X: SpawnX, Y: SpawnY})
	is.Equal(m.Piece(piece.T, piece.I), piece.I)
	// only once per piece
	is.True(!m.ApplyKey(KeyHold, b, piece.T, piece.I))
}

func TestWallKick(t *testing.T) {
	is := is.New(t)
	var b board.Board
	m := Move{Rot: 1, X: -1, Y: 5}
	is.True(m.ApplyKey(KeyCcw, b, piece.T, piece.None))
	is.Equal(m, Move{Rot: 0, X: 0, Y: 5})
}

func TestRotationBlocked(t *testing.T) {
	is := is.New(t)
	// A one-row tunnel at the bottom, with no column anywhere that has four
	// empty cells stacked, so the vertical I cannot fit under any kick.
	var b board.Board
	for y := 1; y < board.Height-1; y++ {
		b[y] = board.FullRow
	}
	b[board.Height-1] = board.FullRow &^ (0b1111 << 3)

	m := Move{X: 3, Y: 18}
	before := m
	is.True(!m.ApplyKey(KeyCw, b, piece.I, piece.None))
	is.True(!m.ApplyKey(KeyLeft, b, piece.I, piece.None))
	is.Equal(m, before)
	is.True(m.ApplyKey(KeyHardDrop, b, piece.I, piece.None))
	is.Equal(m, before)
}

func TestKeysReplay(t *testing.T) {
	var b board.Board
	m := New()
	m.ApplyKey(KeyHold, b, piece.T, piece.L)
	m.ApplyKey(KeyCw, b, piece.T, piece.L)
	m.ApplyKey(KeyLeft, b, piece.T, piece.L)
	m.ApplyKey(KeyLeft, b, piece.T, piece.L)
	m.ApplyKey(KeyHardDrop, b, piece.T, piece.L)

	keys := m.Keys(b, piece.T, piece.L)
	assert.Equal(t, []Key{KeyHold, KeyCw, KeyLeft, KeyLeft, KeyHardDrop}, keys)
}

func TestParseKey(t *testing.T) {
	for _, k := range []Key{KeyLeft, KeyRight, KeyCw, KeyCcw, Key180, KeyHold, KeyHardDrop} {
		parsed, err := ParseKey(k.String())
		assert.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKey("jump")
	assert.Error(t, err)
}

func TestLess(t *testing.T) {
	is := is.New(t)
	is.True(Less(Move{X: 5}, Move{Hold: true}))
	is.True(Less(Move{Rot: 1, X: 9}, Move{Rot: 2}))
	is.True(Less(Move{X: 1, Y: 9}, Move{X: 2}))
	is.True(!Less(Move{X: 2}, Move{X: 2}))
}
