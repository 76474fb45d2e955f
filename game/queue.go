package game

import (
	"encoding/binary"
	"errors"

	"lukechampine.com/frand"

	"github.com/domino14/stacker/piece"
)

// A Source produces the piece stream for a game.
type Source interface {
	Next() piece.Piece
}

// FixedSequence repeats a given sequence forever.
type FixedSequence struct {
	seq []piece.Piece
	idx int
}

func NewFixedSequence(seq []piece.Piece) (*FixedSequence, error) {
	if len(seq) == 0 {
		return nil, errors.New("empty piece sequence")
	}
	for _, p := range seq {
		if p == piece.None {
			return nil, errors.New("sequence contains an empty piece")
		}
	}
	return &FixedSequence{seq: append([]piece.Piece(nil), seq...)}, nil
}

func (f *FixedSequence) Next() piece.Piece {
	p := f.seq[f.idx]
	f.idx = (f.idx + 1) % len(f.seq)
	return p
}

// UniformRandom draws every piece independently with equal probability.
// The same seed always yields the same stream.
type UniformRandom struct {
	rng *frand.RNG
}

func NewUniformRandom(seed int64) *UniformRandom {
	return &UniformRandom{rng: seededRNG(seed)}
}

func (u *UniformRandom) Next() piece.Piece {
	return piece.All[u.rng.Intn(len(piece.All))]
}

func seededRNG(seed int64) *frand.RNG {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:], uint64(seed))
	return frand.NewCustom(s[:], 1024, 12)
}
