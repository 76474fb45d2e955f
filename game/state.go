package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/move"
	"github.com/domino14/stacker/piece"
)

var (
	ErrEmptyQueue       = errors.New("no piece to place")
	ErrIllegalPlacement = errors.New("placement does not fit on the board")
	ErrTopOut           = errors.New("topped out")
)

// Props are the clear and offense statistics that accompany a board.
type Props struct {
	// Atk and DS are the lines sent and the garbage rows cleared by the
	// placement that produced this state.
	Atk int
	DS  int
	// SumAtk and SumDS accumulate Atk and DS over the whole game.
	SumAtk int
	SumDS  int
	// B2B counts consecutive tetrises; 0 means no back-to-back chain.
	B2B int
	// Combo counts consecutive line-clearing placements.
	Combo int
	// Lines is the total number of lines cleared.
	Lines int
}

// State is everything a decision is made from. The core never mutates a
// State; Resolve returns a fresh one.
type State struct {
	Board board.Board
	// Queue[0] is the active piece; the rest are the visible next pieces.
	Queue []piece.Piece
	Hold  piece.Piece
	Props Props
	// Garbage is the number of garbage rows at the bottom of the board that
	// have not been cleared yet.
	Garbage int
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := *s
	c.Queue = append([]piece.Piece(nil), s.Queue...)
	return &c
}

// Active returns the piece to place, or None for an empty queue.
func (s *State) Active() piece.Piece {
	if len(s.Queue) == 0 {
		return piece.None
	}
	return s.Queue[0]
}

// HoldPiece is the piece a hold would bring in: the held piece, or the
// next queued one when the hold slot is empty. It is None when neither
// exists.
func (s *State) HoldPiece() piece.Piece {
	if s.Hold != piece.None {
		return s.Hold
	}
	if len(s.Queue) < 2 {
		return piece.None
	}
	return s.Queue[1]
}

func (s *State) String() string {
	var sb strings.Builder
	sb.WriteString(s.Board.ToDisplayText())
	sb.WriteString(fmt.Sprintf("queue: %s  hold: %s  garbage: %d\n",
		piece.QueueString(s.Queue), s.Hold, s.Garbage))
	p := s.Props
	sb.WriteString(fmt.Sprintf("atk: %d ds: %d sum_atk: %d sum_ds: %d b2b: %d combo: %d lines: %d\n",
		p.Atk, p.DS, p.SumAtk, p.SumDS, p.B2B, p.Combo, p.Lines))
	return sb.String()
}

// Resolve plays m from s and returns the resulting state: the piece is
// locked where m leaves it, lines are cleared, attack and downstack are
// credited, and the queue and hold slot advance. m should already be
// hard-dropped.
func Resolve(s *State, m move.Move) (*State, error) {
	if len(s.Queue) == 0 {
		return nil, ErrEmptyQueue
	}
	active, hold := s.Active(), s.HoldPiece()
	if m.Hold && hold == piece.None {
		return nil, fmt.Errorf("%w: nothing to hold", ErrIllegalPlacement)
	}
	if !s.Board.Fits(m.Cells(active, hold)) {
		return nil, ErrIllegalPlacement
	}
	b, cleared := m.Result(s.Board, active, hold)

	next := &State{Board: b, Hold: s.Hold}
	switch {
	case !m.Hold:
		next.Queue = append([]piece.Piece(nil), s.Queue[1:]...)
	case s.Hold == piece.None:
		// The next piece came out of the queue and the active one went
		// into the hold slot.
		next.Hold = active
		next.Queue = append([]piece.Piece(nil), s.Queue[2:]...)
	default:
		next.Hold = active
		next.Queue = append([]piece.Piece(nil), s.Queue[1:]...)
	}

	ds := 0
	for _, y := range cleared {
		if y >= board.Height-s.Garbage {
			ds++
		}
	}
	next.Garbage = s.Garbage - ds
	next.Props = s.Props.after(len(cleared), ds, b.IsEmpty())
	return next, nil
}
