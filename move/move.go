// Package move describes a placement of the active piece as the state of
// an in-progress input sequence, and the effect of each key on it.
package move

import (
	"fmt"

	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/piece"
)

const (
	// SpawnX and SpawnY locate the top-left corner of a freshly spawned
	// piece's bounding box.
	SpawnX = 3
	SpawnY = 0
)

// Move is a placement in progress: whether hold was used, the rotation
// state reached and the position of the piece's bounding box. It is a
// small comparable value; copying it is cloning it, and assigning a saved
// copy back resets it.
type Move struct {
	Hold bool
	Rot  uint8
	X    int8
	Y    int8
}

// New returns the spawn placement.
func New() Move {
	return Move{X: SpawnX, Y: SpawnY}
}

// Piece is the piece this move places: the held one if hold was used.
func (m Move) Piece(active, hold piece.Piece) piece.Piece {
	if m.Hold {
		return hold
	}
	return active
}

// Cells returns the board cells the piece currently covers.
func (m Move) Cells(active, hold piece.Piece) [4]board.Cell {
	return m.Piece(active, hold).Cells(m.Rot, int(m.X), int(m.Y))
}

func (m Move) fits(b board.Board, p piece.Piece) bool {
	return b.Fits(p.Cells(m.Rot, int(m.X), int(m.Y)))
}

// ApplyKey applies k to the placement. On success it updates m and returns
// true; if the key has no legal effect m is left unchanged and it returns
// false.
func (m *Move) ApplyKey(k Key, b board.Board, active, hold piece.Piece) bool {
	p := m.Piece(active, hold)
	if p == piece.None {
		return false
	}
	switch k {
	case KeyLeft:
		return m.shift(b, p, -1)
	case KeyRight:
		return m.shift(b, p, 1)
	case KeyCw:
		return m.rotate(b, p, 1)
	case Key180:
		return m.rotate(b, p, 2)
	case KeyCcw:
		return m.rotate(b, p, 3)
	case KeyHold:
		if m.Hold || hold == piece.None {
			return false
		}
		next := Move{Hold: true, X: SpawnX, Y: SpawnY}
		if !next.fits(b, hold) {
			return false
		}
		*m = next
		return true
	case KeyHardDrop:
		if !m.fits(b, p) {
			return false
		}
		for {
			next := *m
			next.Y++
			if !next.fits(b, p) {
				return true
			}
			*m = next
		}
	}
	return false
}

func (m *Move) shift(b board.Board, p piece.Piece, dx int8) bool {
	next := *m
	next.X += dx
	if !next.fits(b, p) {
		return false
	}
	*m = next
	return true
}

func (m *Move) rotate(b board.Board, p piece.Piece, turns uint8) bool {
	to := (m.Rot + turns) % piece.NumRotations
	for _, k := range p.Kicks(m.Rot, to) {
		next := *m
		next.Rot = to
		next.X += int8(k.X)
		next.Y += int8(k.Y)
		if next.fits(b, p) {
			*m = next
			return true
		}
	}
	return false
}

// Result locks the piece where it is (call ApplyKey(KeyHardDrop) first for
// a dropped placement), clears full lines and returns the new board along
// with the indices of the cleared rows.
func (m Move) Result(b board.Board, active, hold piece.Piece) (board.Board, []int) {
	return b.Place(m.Cells(active, hold)).ClearLines()
}

// Keys reconstructs an input sequence that reaches m from spawn on board b:
// hold, one rotation key, horizontal shifts, hard drop. It returns nil if
// no such simple sequence reaches m.
func (m Move) Keys(b board.Board, active, hold piece.Piece) []Key {
	var keys []Key
	cur := New()
	if m.Hold {
		if !cur.ApplyKey(KeyHold, b, active, hold) {
			return nil
		}
		keys = append(keys, KeyHold)
	}
	if rk, ok := rotationKey(m.Rot); ok {
		if !cur.ApplyKey(rk, b, active, hold) {
			return nil
		}
		keys = append(keys, rk)
	}
	dir := KeyRight
	if m.X < cur.X {
		dir = KeyLeft
	}
	for cur.X != m.X {
		if !cur.ApplyKey(dir, b, active, hold) {
			return nil
		}
		keys = append(keys, dir)
	}
	if !cur.ApplyKey(KeyHardDrop, b, active, hold) || cur != m {
		return nil
	}
	return append(keys, KeyHardDrop)
}

// ShortDescription is a compact human-readable form, e.g. "hold cw x4".
func (m Move) ShortDescription() string {
	s := ""
	if m.Hold {
		s = "hold "
	}
	switch m.Rot {
	case 0:
		s += "spawn"
	case 1:
		s += "cw"
	case 2:
		s += "180"
	case 3:
		s += "ccw"
	}
	return fmt.Sprintf("%s x%d", s, m.X)
}

func (m Move) String() string {
	return fmt.Sprintf("<hold: %v rot: %d x: %d y: %d>", m.Hold, m.Rot, m.X, m.Y)
}

// Less orders moves by hold, rotation, x, y. It gives a stable tie-break
// wherever moves with equal equity are sorted.
func Less(a, b Move) bool {
	if a.Hold != b.Hold {
		return !a.Hold
	}
	if a.Rot != b.Rot {
		return a.Rot < b.Rot
	}
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}
