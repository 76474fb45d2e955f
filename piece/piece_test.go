package piece

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/stacker/board"
)

func TestParseQueue(t *testing.T) {
	is := is.New(t)
	q, err := ParseQueue("tSzIoJL")
	is.NoErr(err)
	is.Equal(q, []Piece{T, S, Z, I, O, J, L})
	is.Equal(QueueString(q), "TSZIOJL")

	q, err = ParseQueue("-")
	is.NoErr(err)
	is.Equal(len(q), 0)

	_, err = ParseQueue("TX")
	is.True(err != nil)
}

func TestShapesHaveFourDistinctCellsInBox(t *testing.T) {
	for _, p := range All {
		for r := uint8(0); r < NumRotations; r++ {
			seen := map[board.Cell]bool{}
			for _, c := range p.Shape(r) {
				assert.True(t, c.X >= 0 && c.X < 4 && c.Y >= 0 && c.Y < 4, "%v rot %d", p, r)
				seen[c] = true
			}
			assert.Len(t, seen, 4, "%v rot %d", p, r)
		}
	}
}

func TestSpawnCellsFitEmptyBoard(t *testing.T) {
	var b board.Board
	for _, p := range All {
		assert.True(t, b.Fits(p.Cells(0, 3, 0)), "%v", p)
	}
}

func TestKicks(t *testing.T) {
	is := is.New(t)
	is.Equal(len(T.Kicks(0, 1)), 5)
	is.Equal(T.Kicks(0, 1)[1], Offset{-1, 0})
	is.Equal(I.Kicks(0, 1)[1], Offset{-2, 0})
	is.Equal(len(O.Kicks(0, 1)), 1)
	is.Equal(len(T.Kicks(0, 2)), 1)
	is.Equal(len(I.Kicks(3, 1)), 1)
}
