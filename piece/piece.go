// Package piece describes the seven tetrominoes and their rotation geometry
// under the Super Rotation System.
package piece

import (
	"fmt"
	"strings"

	"github.com/domino14/stacker/board"
)

// Piece is a tetromino kind. The zero value is None, used for an empty
// hold slot.
type Piece uint8

const (
	None Piece = iota
	I
	O
	T
	S
	Z
	J
	L
)

// NumRotations is the number of rotation states. State 0 is the spawn state;
// states increase clockwise.
const NumRotations = 4

// All lists the seven playable pieces.
var All = [7]Piece{I, O, T, S, Z, J, L}

var pieceLetters = [...]string{"-", "I", "O", "T", "S", "Z", "J", "L"}

func (p Piece) String() string {
	if int(p) >= len(pieceLetters) {
		return "?"
	}
	return pieceLetters[p]
}

// FromRune converts a letter (either case) into a piece. The boolean is false
// for anything that is not one of IOTSZJL.
func FromRune(r rune) (Piece, bool) {
	switch r {
	case 'I', 'i':
		return I, true
	case 'O', 'o':
		return O, true
	case 'T', 't':
		return T, true
	case 'S', 's':
		return S, true
	case 'Z', 'z':
		return Z, true
	case 'J', 'j':
		return J, true
	case 'L', 'l':
		return L, true
	}
	return None, false
}

// ParseQueue turns a string like "TSZ" into a piece queue. "-" parses to an
// empty queue so that an empty hold slot can be written the same way.
func ParseQueue(s string) ([]Piece, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return []Piece{}, nil
	}
	q := make([]Piece, 0, len(s))
	for _, r := range s {
		p, ok := FromRune(r)
		if !ok {
			return nil, fmt.Errorf("unknown piece %q in %q", r, s)
		}
		q = append(q, p)
	}
	return q, nil
}

// QueueString is the inverse of ParseQueue.
func QueueString(q []Piece) string {
	var sb strings.Builder
	for _, p := range q {
		sb.WriteString(p.String())
	}
	return sb.String()
}

// shapes holds the cell offsets of every piece in every rotation state,
// relative to the top-left corner of the piece's bounding box. y grows
// downward.
var shapes = [8][NumRotations][4]board.Cell{
	I: {
		{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}},
		{{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}},
		{{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}},
		{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}},
	},
	O: {
		{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}},
	},
	T: {
		{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}},
		{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}},
		{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}},
	},
	S: {
		{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
		{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}},
		{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}},
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}},
	},
	Z: {
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		{{X: 2, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}},
		{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}},
		{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 2}},
	},
	J: {
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}},
		{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}},
		{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}},
	},
	L: {
		{{X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}},
		{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 0, Y: 2}},
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}},
	},
}

// Shape returns the box-relative cells of p in rotation state rot. None has
// no cells and returns the zero array; callers must not place it.
func (p Piece) Shape(rot uint8) [4]board.Cell {
	return shapes[p][rot%NumRotations]
}

// Cells returns the absolute cells of p in rotation rot with its box at (x, y).
func (p Piece) Cells(rot uint8, x, y int) [4]board.Cell {
	cells := p.Shape(rot)
	for i := range cells {
		cells[i].X += x
		cells[i].Y += y
	}
	return cells
}
