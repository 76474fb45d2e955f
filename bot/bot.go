// Package bot picks placements: it enumerates what the active piece can
// do, resolves each placement into the state it would produce, scores
// those states and ranks them.
package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/equity"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/move"
	"github.com/domino14/stacker/movegen"
)

var ErrNoMoves = errors.New("no placement available")

// Candidate is one ranked placement.
type Candidate struct {
	Move move.Move
	// State is the decision state after the placement resolves.
	State  *game.State
	Equity float32
}

func (c *Candidate) Board() board.Board {
	return c.State.Board
}

func (c *Candidate) String() string {
	return fmt.Sprintf("%-14s %10.2f  atk %d ds %d", c.Move.ShortDescription(),
		c.Equity, c.State.Props.Atk, c.State.Props.DS)
}

type BotTurnPlayer struct {
	calc    equity.EquityCalculator
	threads int
}

func NewBotTurnPlayer(calc equity.EquityCalculator, threads int) *BotTurnPlayer {
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	return &BotTurnPlayer{calc: calc, threads: threads}
}

// NewBotTurnPlayerFromConfig builds a bot around the configured profile,
// memoizing evaluations.
func NewBotTurnPlayerFromConfig(cfg *config.Config) (*BotTurnPlayer, error) {
	hc, err := equity.NewCalculatorFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewBotTurnPlayer(equity.NewCachedCalculator(hc, 0), cfg.GetInt(config.ConfigThreads)), nil
}

func (p *BotTurnPlayer) Calculator() equity.EquityCalculator {
	return p.calc
}

func (p *BotTurnPlayer) Threads() int {
	return p.threads
}

// GenerateMoves returns up to n candidates, best first. n <= 0 returns all
// of them. Equal equities are ordered by move so results never depend on
// scheduling.
func (p *BotTurnPlayer) GenerateMoves(ctx context.Context, st *game.State, n int) ([]*Candidate, error) {
	placements := movegen.Sorted(movegen.GenPlacements(st))
	if len(placements) == 0 {
		return nil, ErrNoMoves
	}

	cands := make([]*Candidate, len(placements))
	for i, pl := range placements {
		next, err := game.Resolve(st, pl.Move)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", pl.Move, err)
		}
		cands[i] = &Candidate{Move: pl.Move, State: next}
	}

	if err := p.AssignEquity(ctx, cands); err != nil {
		return nil, err
	}
	sortCandidates(cands)

	log.Debug().Int("placements", len(cands)).
		Str("top", cands[0].Move.ShortDescription()).
		Float32("top-equity", cands[0].Equity).
		Msg("generated-moves")

	if n > 0 && n < len(cands) {
		cands = cands[:n]
	}
	return cands, nil
}

// BestMove returns the top-ranked candidate.
func (p *BotTurnPlayer) BestMove(ctx context.Context, st *game.State) (*Candidate, error) {
	cands, err := p.GenerateMoves(ctx, st, 1)
	if err != nil {
		return nil, err
	}
	return cands[0], nil
}

// AssignEquity scores every candidate, splitting the work over the
// player's threads.
func (p *BotTurnPlayer) AssignEquity(ctx context.Context, cands []*Candidate) error {
	if len(cands) == 0 {
		return nil
	}
	size := (len(cands) + p.threads - 1) / p.threads
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.threads)
	for _, chunk := range lo.Chunk(cands, size) {
		chunk := chunk
		g.Go(func() error {
			for _, c := range chunk {
				if err := ctx.Err(); err != nil {
					return err
				}
				c.Equity = p.calc.Evaluate(c.State)
			}
			return nil
		})
	}
	return g.Wait()
}

func sortCandidates(cands []*Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Equity != cands[j].Equity {
			return cands[i].Equity > cands[j].Equity
		}
		return move.Less(cands[i].Move, cands[j].Move)
	})
}
