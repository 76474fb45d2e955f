package board

import (
	"fmt"
	"strings"
)

// ToDisplayText draws the board with column letters on top and row numbers
// on the left.
func (b Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < Width; x++ {
		sb.WriteString(fmt.Sprintf("%c", 'A'+x))
	}
	sb.WriteString("\n   " + strings.Repeat("-", Width) + "\n")
	for y := 0; y < Height; y++ {
		sb.WriteString(fmt.Sprintf("%2d|", y))
		sb.WriteString(b.rowString(y))
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", Width) + "\n")
	return sb.String()
}

func (b Board) rowString(y int) string {
	var sb strings.Builder
	for x := 0; x < Width; x++ {
		if b.Occupied(x, y) {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// String prints only the occupied part of the stack, one row per line.
func (b Board) String() string {
	var rows []string
	for y := Height - b.StackHeight(); y < Height; y++ {
		rows = append(rows, b.rowString(y))
	}
	if len(rows) == 0 {
		return "(empty)"
	}
	return strings.Join(rows, "\n")
}

// FromRows builds a board from text rows, column 0 leftmost. The rows are
// bottom-aligned: the last row given becomes row Height-1. Any of "X#@1"
// marks a filled cell; "." "_" " " and "0" mark an empty one.
func FromRows(rows ...string) (Board, error) {
	var b Board
	if len(rows) > Height {
		return b, fmt.Errorf("too many rows: %d (max %d)", len(rows), Height)
	}
	offset := Height - len(rows)
	for i, row := range rows {
		if len(row) > Width {
			return b, fmt.Errorf("row %d is %d wide (max %d)", i, len(row), Width)
		}
		for x, ch := range row {
			switch ch {
			case 'X', 'x', '#', '@', '1':
				b.Set(x, offset+i)
			case '.', '_', ' ', '0':
			default:
				return b, fmt.Errorf("row %d: unexpected character %q", i, ch)
			}
		}
	}
	return b, nil
}

// Parse reads a board written as newline- or slash-separated rows, as
// produced by String.
func Parse(s string) (Board, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "(empty)" {
		return Board{}, nil
	}
	s = strings.ReplaceAll(s, "/", "\n")
	lines := strings.Split(s, "\n")
	rows := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		rows = append(rows, l)
	}
	return FromRows(rows...)
}

// MustFromRows is FromRows for fixed test fixtures.
func MustFromRows(rows ...string) Board {
	b, err := FromRows(rows...)
	if err != nil {
		panic(err)
	}
	return b
}
