// Package game holds the decision state handed to the enumerator and the
// evaluator, the resolution of a placement into the next state, and a
// simple single-player game used for autoplay.
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/move"
)

// Game is a running single-player game. It is not safe for concurrent use.
type Game struct {
	uid     string
	state   *State
	source  Source
	preview int
	rng     *frand.RNG

	turn    int
	playing bool
	history []move.Move
}

// NewGame starts a game on an empty board. preview is the number of
// pieces kept in the queue; it is raised to 2 so that hold always has a
// piece to bring in.
func NewGame(src Source, preview int, seed int64) *Game {
	if preview < 2 {
		preview = 2
	}
	g := &Game{
		uid:     uuid.NewString(),
		state:   &State{},
		source:  src,
		preview: preview,
		// Garbage holes use their own stream so that they don't perturb the
		// piece sequence.
		rng:     seededRNG(seed ^ 0x5eed),
		playing: true,
	}
	g.fillQueue()
	return g
}

func (g *Game) fillQueue() {
	for len(g.state.Queue) < g.preview {
		g.state.Queue = append(g.state.Queue, g.source.Next())
	}
}

// State returns a copy of the current decision state.
func (g *Game) State() *State {
	return g.state.Clone()
}

func (g *Game) Board() board.Board {
	return g.state.Board
}

func (g *Game) Props() Props {
	return g.state.Props
}

func (g *Game) Uid() string {
	return g.uid
}

func (g *Game) Turn() int {
	return g.turn
}

func (g *Game) Playing() bool {
	return g.playing
}

func (g *Game) History() []move.Move {
	return g.history
}

// PlayMove places the active piece according to m (which must already be
// hard-dropped), refills the queue and checks whether the next piece can
// spawn.
func (g *Game) PlayMove(m move.Move) error {
	if !g.playing {
		return ErrTopOut
	}
	next, err := Resolve(g.state, m)
	if err != nil {
		return err
	}
	g.state = next
	g.turn++
	g.history = append(g.history, m)
	g.fillQueue()
	if !g.canSpawn() {
		g.playing = false
		log.Debug().Str("game", g.uid).Int("turn", g.turn).Msg("top-out")
		return ErrTopOut
	}
	return nil
}

func (g *Game) canSpawn() bool {
	m := move.New()
	return g.state.Board.Fits(m.Cells(g.state.Active(), g.state.HoldPiece()))
}

// AddGarbage pushes n garbage rows, all sharing one random hole column,
// under the stack.
func (g *Game) AddGarbage(n int) error {
	if !g.playing {
		return ErrTopOut
	}
	hole := g.rng.Intn(board.Width)
	b, ok := g.state.Board.AddGarbage(n, hole)
	g.state.Board = b
	g.state.Garbage += n
	if g.state.Garbage > board.Height {
		g.state.Garbage = board.Height
	}
	if !ok || !g.canSpawn() {
		g.playing = false
		return fmt.Errorf("%w: garbage pushed the stack over the top", ErrTopOut)
	}
	return nil
}
