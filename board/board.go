// Package board holds the playfield: a fixed 10x20 grid stored as one
// occupancy bitmask per row.
package board

import (
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash"
)

const (
	Width  = 10
	Height = 20

	// FullRow has all Width column bits set.
	FullRow uint16 = 1<<Width - 1
)

// Board is row-major; row 0 is the topmost row and bit x of a row is set
// when column x is occupied. It is a plain array, so == and map keys work
// on it directly.
type Board [Height]uint16

// Cell is a board coordinate. y grows downward.
type Cell struct {
	X, Y int
}

func InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

func (b Board) Occupied(x, y int) bool {
	return b[y]&(1<<x) != 0
}

func (b Board) Row(y int) uint16 {
	return b[y]
}

// Set fills a cell. Out-of-bounds cells are ignored.
func (b *Board) Set(x, y int) {
	if !InBounds(x, y) {
		return
	}
	b[y] |= 1 << x
}

func (b *Board) Clear(x, y int) {
	if !InBounds(x, y) {
		return
	}
	b[y] &^= 1 << x
}

// Fits reports whether every cell is inside the grid and empty.
func (b Board) Fits(cells [4]Cell) bool {
	for _, c := range cells {
		if !InBounds(c.X, c.Y) || b.Occupied(c.X, c.Y) {
			return false
		}
	}
	return true
}

// Place returns a copy of b with the cells filled. It does not clear lines.
func (b Board) Place(cells [4]Cell) Board {
	for _, c := range cells {
		b.Set(c.X, c.Y)
	}
	return b
}

// ClearLines removes full rows, shifting everything above them down. It
// returns the new board and the indices (in b) of the rows that were
// removed, top to bottom.
func (b Board) ClearLines() (Board, []int) {
	var out Board
	var cleared []int
	dst := Height - 1
	for y := Height - 1; y >= 0; y-- {
		if b[y] == FullRow {
			cleared = append(cleared, y)
			continue
		}
		out[dst] = b[y]
		dst--
	}
	// cleared was collected bottom-up.
	for i, j := 0, len(cleared)-1; i < j; i, j = i+1, j-1 {
		cleared[i], cleared[j] = cleared[j], cleared[i]
	}
	return out, cleared
}

// AddGarbage pushes n rows onto the bottom of the stack, each full except
// for the hole column. Rows pushed off the top are lost; the boolean is
// false when any of them was occupied.
func (b Board) AddGarbage(n, hole int) (Board, bool) {
	if n <= 0 {
		return b, true
	}
	if n > Height {
		n = Height
	}
	ok := true
	for y := 0; y < n; y++ {
		if b[y] != 0 {
			ok = false
		}
	}
	var out Board
	copy(out[:], b[n:])
	row := FullRow &^ (1 << hole)
	for y := Height - n; y < Height; y++ {
		out[y] = row
	}
	return out, ok
}

// Heights returns, per column, the row index of the topmost occupied cell,
// or Height for an empty column. Smaller means taller.
func (b Board) Heights() [Width]int {
	var h [Width]int
	top := 0
	for top < Height && b[top] == 0 {
		top++
	}
	for x := 0; x < Width; x++ {
		h[x] = Height
		for y := top; y < Height; y++ {
			if b[y]&(1<<x) != 0 {
				h[x] = y
				break
			}
		}
	}
	return h
}

// CellCount returns the number of occupied cells.
func (b Board) CellCount() int {
	n := 0
	for _, r := range b {
		n += bits.OnesCount16(r)
	}
	return n
}

func (b Board) IsEmpty() bool {
	return b == Board{}
}

// StackHeight is the number of rows from the floor up to and including the
// topmost occupied row.
func (b Board) StackHeight() int {
	for y := 0; y < Height; y++ {
		if b[y] != 0 {
			return Height - y
		}
	}
	return 0
}

// Hash fingerprints the board. It is stable across runs and processes.
func (b Board) Hash() uint64 {
	var buf [Height * 2]byte
	for y, r := range b {
		binary.LittleEndian.PutUint16(buf[y*2:], r)
	}
	return xxhash.Sum64(buf[:])
}
