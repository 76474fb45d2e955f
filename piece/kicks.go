package piece

// Offset is a kick translation. Y grows downward, like the board.
type Offset struct {
	X, Y int
}

// SRS tables are published with y pointing up; they are written here
// already flipped.
var jlstzKicks = [NumRotations][NumRotations][]Offset{
	0: {
		1: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		3: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	},
	1: {
		0: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		2: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	},
	2: {
		1: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		3: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	},
	3: {
		2: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		0: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	},
}

var iKicks = [NumRotations][NumRotations][]Offset{
	0: {
		1: {{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
		3: {{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
	},
	1: {
		0: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
		2: {{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
	},
	2: {
		1: {{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
		3: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
	},
	3: {
		2: {{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
		0: {{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
	},
}

var noKick = []Offset{{0, 0}}

// Kicks returns the translations to try, in order, when rotating p from
// state `from` to state `to`. Half turns and the O piece only try the
// unkicked position.
func (p Piece) Kicks(from, to uint8) []Offset {
	from, to = from%NumRotations, to%NumRotations
	if p == O || (from+2)%NumRotations == to {
		return noKick
	}
	var table [NumRotations][NumRotations][]Offset
	if p == I {
		table = iKicks
	} else {
		table = jlstzKicks
	}
	if k := table[from][to]; k != nil {
		return k
	}
	return noKick
}
