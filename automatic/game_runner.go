// Package automatic plays the bot against the piece stream, unattended,
// for as many games as asked, and collects the results.
package automatic

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/stacker/bot"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/piece"
	"github.com/domino14/stacker/storage"
)

// TurnLogHeader is the first line of a turn log.
const TurnLogHeader = "gameID,turn,piece,hold,play,attack,downstack,lines,sumattack,sumdownstack,equity\n"

// GameRunner plays one game at a time with a bot.
type GameRunner struct {
	game   *game.Game
	player *bot.BotTurnPlayer
	config *config.Config

	seed         int64
	maxPieces    int
	garbageEvery int
	logchan      chan string
}

// NewGameRunner creates a runner. logchan, if not nil, receives one CSV
// line per turn.
func NewGameRunner(logchan chan string, cfg *config.Config, player *bot.BotTurnPlayer) *GameRunner {
	return &GameRunner{
		player:       player,
		config:       cfg,
		maxPieces:    cfg.GetInt(config.ConfigPiecesPerGame),
		garbageEvery: cfg.GetInt(config.ConfigGarbageEvery),
		logchan:      logchan,
	}
}

// Init starts a fresh game. The piece stream is the configured fixed
// queue if there is one, and otherwise uniformly random from seed.
func (r *GameRunner) Init(seed int64) error {
	var src game.Source
	if q := r.config.GetString(config.ConfigQueue); q != "" {
		pieces, err := piece.ParseQueue(q)
		if err != nil {
			return err
		}
		src, err = game.NewFixedSequence(pieces)
		if err != nil {
			return err
		}
	} else {
		src = game.NewUniformRandom(seed)
	}
	r.seed = seed
	r.game = game.NewGame(src, r.config.GetInt(config.ConfigPreview), seed)
	return nil
}

func (r *GameRunner) Game() *game.Game {
	return r.game
}

// PlayBestTurn asks the bot for its best placement and plays it.
func (r *GameRunner) PlayBestTurn(ctx context.Context) error {
	st := r.game.State()
	best, err := r.player.BestMove(ctx, st)
	if err != nil {
		return err
	}
	playErr := r.game.PlayMove(best.Move)
	if playErr != nil && !errors.Is(playErr, game.ErrTopOut) {
		return playErr
	}
	if r.logchan != nil {
		props := r.game.Props()
		r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%v,%v,%v,%.3f\n",
			r.game.Uid(),
			r.game.Turn(),
			st.Active(),
			st.Hold,
			best.Move.ShortDescription(),
			props.Atk,
			props.DS,
			props.Lines,
			props.SumAtk,
			props.SumDS,
			best.Equity,
		)
	}
	return playErr
}

// PlayGame plays until the piece limit or a top-out and returns the
// result. A context error aborts the game and is returned as is.
func (r *GameRunner) PlayGame(ctx context.Context) (storage.GameRecord, error) {
	toppedOut := false
	for r.game.Playing() && (r.maxPieces <= 0 || r.game.Turn() < r.maxPieces) {
		if err := ctx.Err(); err != nil {
			return storage.GameRecord{}, err
		}
		err := r.PlayBestTurn(ctx)
		if errors.Is(err, game.ErrTopOut) || errors.Is(err, bot.ErrNoMoves) {
			toppedOut = true
			break
		}
		if err != nil {
			return storage.GameRecord{}, err
		}
		if r.garbageEvery > 0 && r.game.Turn()%r.garbageEvery == 0 {
			if err := r.game.AddGarbage(1); err != nil {
				toppedOut = true
				break
			}
		}
	}

	b := r.game.Board()
	props := r.game.Props()
	rec := storage.GameRecord{
		GameID:     r.game.Uid(),
		Profile:    r.config.GetString(config.ConfigProfile),
		Seed:       r.seed,
		Pieces:     r.game.Turn(),
		Lines:      props.Lines,
		Attack:     props.SumAtk,
		Downstack:  props.SumDS,
		ToppedOut:  toppedOut,
		FinalBoard: b.String(),
		BoardHash:  b.Hash(),
	}
	log.Debug().Str("game", rec.GameID).Int("pieces", rec.Pieces).
		Int("attack", rec.Attack).Bool("topped-out", toppedOut).Msg("game-over")
	return rec, nil
}
