package automatic

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/domino14/stacker/bot"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/stats"
	"github.com/domino14/stacker/storage"
)

var (
	GamesCounter *expvar.Int
	IsPlaying    *expvar.Int
)

func init() {
	GamesCounter = expvar.NewInt("autoplayGames")
	IsPlaying = expvar.NewInt("autoplayIsPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// Results aggregates the finished games of one autoplay run.
type Results struct {
	sync.Mutex
	Games     int
	ToppedOut int

	Pieces         *stats.Summary
	Lines          *stats.Summary
	Attack         *stats.Summary
	Downstack      *stats.Summary
	AttackPerPiece *stats.Summary
}

func newResults() *Results {
	return &Results{
		Pieces:         stats.NewSummary("pieces"),
		Lines:          stats.NewSummary("lines"),
		Attack:         stats.NewSummary("attack"),
		Downstack:      stats.NewSummary("downstack"),
		AttackPerPiece: stats.NewSummary("attack/piece"),
	}
}

func (r *Results) add(rec storage.GameRecord) {
	r.Lock()
	r.Games++
	if rec.ToppedOut {
		r.ToppedOut++
	}
	r.Unlock()
	r.Pieces.Add(float64(rec.Pieces))
	r.Lines.Add(float64(rec.Lines))
	r.Attack.Add(float64(rec.Attack))
	r.Downstack.Add(float64(rec.Downstack))
	if rec.Pieces > 0 {
		r.AttackPerPiece.Add(float64(rec.Attack) / float64(rec.Pieces))
	}
}

func (r *Results) String() string {
	r.Lock()
	head := fmt.Sprintf("games: %d  topped out: %d", r.Games, r.ToppedOut)
	r.Unlock()
	return head + "\n" +
		stats.Report(r.Pieces, r.Lines, r.Attack, r.Downstack, r.AttackPerPiece)
}

// gameSeed gives game i of a run its seed. A zero base seed means a fresh
// random one per game.
func gameSeed(base int64, i int) int64 {
	if base == 0 {
		return int64(frand.Uint64n(math.MaxInt64)) + 1
	}
	return base + int64(i)
}

type job struct {
	idx int
}

// StartAutoplay plays numGames games over threads workers and blocks until
// they finish. Each result is saved to store (if not nil) and summarized.
// Cancelling ctx stops queueing new games and aborts the ones in progress;
// the results of games finished so far are still returned.
func StartAutoplay(ctx context.Context, cfg *config.Config, store *storage.Store,
	numGames int, threads int) (*Results, error) {

	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	if threads < 1 {
		threads = 1
	}
	player, err := bot.NewBotTurnPlayerFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	var logChan chan string
	var logDone chan struct{}
	if fn := cfg.GetString(config.ConfigTurnLog); fn != "" {
		logfile, err := os.Create(fn)
		if err != nil {
			return nil, err
		}
		logChan = make(chan string, 100)
		logDone = make(chan struct{})
		go func() {
			defer close(logDone)
			logfile.WriteString(TurnLogHeader)
			for msg := range logChan {
				logfile.WriteString(msg)
			}
			logfile.Close()
			log.Debug().Msg("exiting turn logger goroutine")
		}()
	}

	log.Info().Int("games", numGames).Int("threads", threads).Msg("starting-autoplay")
	GamesCounter.Set(0)
	results := newResults()
	baseSeed := cfg.GetInt64(config.ConfigSeed)
	jobs := make(chan job, 100)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			r := NewGameRunner(logChan, cfg, player)
			for j := range jobs {
				if err := r.Init(gameSeed(baseSeed, j.idx)); err != nil {
					return err
				}
				rec, err := r.PlayGame(gctx)
				if err != nil {
					return err
				}
				if store != nil {
					if _, err := store.SaveGame(gctx, rec); err != nil {
						return err
					}
				}
				results.add(rec)
				GamesCounter.Add(1)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < numGames; i++ {
			select {
			case <-gctx.Done():
				log.Info().Msg("got stop signal, no more games will be queued")
				return nil
			case jobs <- job{idx: i}:
			}
			if (i+1)%1000 == 0 {
				log.Info().Msgf("queued %v games", i+1)
			}
		}
		return nil
	})

	err = g.Wait()
	if logChan != nil {
		close(logChan)
		<-logDone
	}
	if err == nil {
		err = ctx.Err()
	}
	log.Info().Int("finished", results.Games).Err(err).Msg("autoplay-done")
	return results, err
}
