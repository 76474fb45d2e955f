package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/stacker/automatic"
	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/bot"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/move"
	"github.com/domino14/stacker/piece"
)

var errNoGame = errors.New("no game in progress; use `new` first")

// detach is called whenever the decision state is edited by hand; the
// state no longer follows a running game.
func (sc *ShellController) detach() {
	sc.game = nil
	sc.curGenPlays = nil
}

func (sc *ShellController) setBoard(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.state.Board.ToDisplayText()), nil
	}
	var b board.Board
	if !(len(cmd.args) == 1 && cmd.args[0] == "clear") {
		var err error
		b, err = board.Parse(strings.Join(cmd.args, "/"))
		if err != nil {
			return nil, err
		}
	}
	sc.detach()
	sc.state.Board = b
	if sc.state.Garbage > b.StackHeight() {
		sc.state.Garbage = b.StackHeight()
	}
	return msg(b.ToDisplayText()), nil
}

func (sc *ShellController) setQueue(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg("queue: " + piece.QueueString(sc.state.Queue)), nil
	}
	q, err := piece.ParseQueue(strings.Join(cmd.args, ""))
	if err != nil {
		return nil, err
	}
	sc.detach()
	sc.state.Queue = q
	return msg("queue: " + piece.QueueString(q)), nil
}

func (sc *ShellController) setHold(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return msg("hold: " + sc.state.Hold.String()), nil
	}
	var p piece.Piece
	if cmd.args[0] != "-" {
		var ok bool
		runes := []rune(cmd.args[0])
		if len(runes) != 1 {
			return nil, errors.New("hold takes a single piece letter or -")
		}
		p, ok = piece.FromRune(runes[0])
		if !ok {
			return nil, fmt.Errorf("unknown piece %q", cmd.args[0])
		}
	}
	sc.detach()
	sc.state.Hold = p
	return msg("hold: " + p.String()), nil
}

func (sc *ShellController) setGarbage(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: garbage <rows>")
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 || n > board.Height {
		return nil, fmt.Errorf("garbage rows must be between 0 and %d", board.Height)
	}
	sc.detach()
	sc.state.Garbage = n
	return msg(fmt.Sprintf("garbage rows: %d", n)), nil
}

func (sc *ShellController) setProps(cmd *shellcmd) (*Response, error) {
	p := sc.state.Props
	fields := []struct {
		key string
		dst *int
	}{
		{"atk", &p.Atk}, {"ds", &p.DS}, {"sumatk", &p.SumAtk}, {"sumds", &p.SumDS},
		{"b2b", &p.B2B}, {"combo", &p.Combo}, {"lines", &p.Lines},
	}
	for _, f := range fields {
		v, err := cmd.options.IntDefault(f.key, *f.dst)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = v
	}
	if len(cmd.options) > 0 {
		sc.detach()
		sc.state.Props = p
	}
	return msg(fmt.Sprintf("atk: %d ds: %d sum_atk: %d sum_ds: %d b2b: %d combo: %d lines: %d",
		p.Atk, p.DS, p.SumAtk, p.SumDS, p.B2B, p.Combo, p.Lines)), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game != nil {
		return msg(sc.game.ToDisplayText()), nil
	}
	return msg(sc.state.String()), nil
}

func moveTableHeader() string {
	return "     Move               Equity  Atk  DS  Keys"
}

func MoveTableRow(idx int, st *game.State, c *bot.Candidate) string {
	keys := c.Move.Keys(st.Board, st.Active(), st.HoldPiece())
	ks := make([]string, len(keys))
	for i, k := range keys {
		ks[i] = k.String()
	}
	props := c.State.Props
	return fmt.Sprintf("%3d: %-16s %9.2f %4d %3d  %s", idx+1,
		c.Move.ShortDescription(), c.Equity, props.Atk, props.DS, strings.Join(ks, " "))
}

func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	numPlays := 10
	if len(cmd.args) > 0 {
		var err error
		numPlays, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	cands, err := sc.player.GenerateMoves(context.Background(), sc.state, numPlays)
	if err != nil {
		return nil, err
	}
	sc.curGenPlays = cands
	lines := []string{moveTableHeader()}
	for i, c := range cands {
		lines = append(lines, MoveTableRow(i, sc.state, c))
	}
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	calc := sc.calc
	if cmd.options.Bool("trace") {
		calc = calc.WithLogger(log.Logger.Level(zerolog.TraceLevel))
	}
	bd := calc.EvaluateBreakdown(sc.state)
	well := "none"
	if bd.Well >= 0 {
		well = string(rune('A' + bd.Well))
	}
	mode := "normal"
	if bd.Downstack {
		mode = "downstack"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "heights:          %v\n", bd.Heights)
	fmt.Fprintf(&sb, "average height:   %.4f (adjusted %.4f)\n", bd.Average, bd.AdjustedAverage)
	fmt.Fprintf(&sb, "holes:            %.0f (depth sum sq %.0f)\n", bd.Holes, bd.HoleDepthSumSq)
	fmt.Fprintf(&sb, "mode:             %s\n", mode)
	fmt.Fprintf(&sb, "well:             %s\n", well)
	fmt.Fprintf(&sb, "global deviation: %.4f\n", bd.GlobalDeviation)
	fmt.Fprintf(&sb, "local deviation:  %.0f\n", bd.LocalDeviation)
	fmt.Fprintf(&sb, "score:            %.4f", bd.Score)
	return msg(sb.String()), nil
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	c, err := sc.player.BestMove(context.Background(), sc.state)
	if err != nil {
		return nil, err
	}
	sc.curGenPlays = nil
	return msg(moveTableHeader() + "\n" + MoveTableRow(0, sc.state, c) +
		"\n\n" + c.Board().ToDisplayText()), nil
}

// moveFromKeys replays a key sequence from spawn. A sequence that does not
// end with a drop is dropped.
func (sc *ShellController) moveFromKeys(fields []string) (move.Move, error) {
	st := sc.state
	if len(st.Queue) == 0 {
		return move.Move{}, game.ErrEmptyQueue
	}
	active, hold := st.Active(), st.HoldPiece()
	m := move.New()
	if !st.Board.Fits(m.Cells(active, hold)) {
		return m, game.ErrTopOut
	}
	dropped := false
	for _, f := range fields {
		k, err := move.ParseKey(f)
		if err != nil {
			return m, err
		}
		if dropped {
			return m, errors.New("keys after a drop")
		}
		if !m.ApplyKey(k, st.Board, active, hold) {
			return m, fmt.Errorf("key %v is blocked", k)
		}
		dropped = k == move.KeyHardDrop
	}
	if !dropped {
		m.ApplyKey(move.KeyHardDrop, st.Board, active, hold)
	}
	return m, nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: play <n> | play <keys...>")
	}
	var m move.Move
	if n, err := strconv.Atoi(cmd.args[0]); err == nil && len(cmd.args) == 1 {
		if n < 1 || n > len(sc.curGenPlays) {
			return nil, errors.New("play outside range; generate some plays first")
		}
		m = sc.curGenPlays[n-1].Move
	} else {
		m, err = sc.moveFromKeys(cmd.args)
		if err != nil {
			return nil, err
		}
	}
	sc.curGenPlays = nil

	if sc.game != nil {
		err := sc.game.PlayMove(m)
		sc.state = sc.game.State()
		if err != nil && !errors.Is(err, game.ErrTopOut) {
			return nil, err
		}
		return msg(sc.game.ToDisplayText()), nil
	}
	next, err := game.Resolve(sc.state, m)
	if err != nil {
		return nil, err
	}
	sc.state = next
	return msg(next.String()), nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	seed, err := cmd.options.IntDefault("seed", sc.config.GetInt(config.ConfigSeed))
	if err != nil {
		return nil, err
	}
	var src game.Source
	if q := cmd.options.String("queue"); q != "" {
		pieces, err := piece.ParseQueue(q)
		if err != nil {
			return nil, err
		}
		if src, err = game.NewFixedSequence(pieces); err != nil {
			return nil, err
		}
	} else {
		src = game.NewUniformRandom(int64(seed))
	}
	sc.game = game.NewGame(src, sc.config.GetInt(config.ConfigPreview), int64(seed))
	sc.state = sc.game.State()
	sc.curGenPlays = nil
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) step(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	n := 1
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	ctx := context.Background()
	for i := 0; i < n && sc.game.Playing(); i++ {
		c, err := sc.player.BestMove(ctx, sc.game.State())
		if err != nil {
			return nil, err
		}
		if err := sc.game.PlayMove(c.Move); err != nil && !errors.Is(err, game.ErrTopOut) {
			return nil, err
		}
	}
	sc.state = sc.game.State()
	sc.curGenPlays = nil
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 1 && cmd.args[0] == "stop" {
		if !sc.stopAutoplay() {
			return nil, errors.New("autoplay is not running")
		}
		return msg("autoplay stopped"), nil
	}
	if len(cmd.args) == 1 && cmd.args[0] == "show" {
		sc.autoplayMu.Lock()
		res := sc.lastResults
		sc.autoplayMu.Unlock()
		if res == nil {
			return nil, errors.New("no autoplay results yet")
		}
		var sb strings.Builder
		sb.WriteString(res.String() + "\n")
		if err := res.AttackPerPiece.Histogram(&sb, 10, 40); err != nil {
			return nil, err
		}
		return msg(sb.String()), nil
	}

	games := sc.config.GetInt(config.ConfigGames)
	if len(cmd.args) > 0 {
		var err error
		if games, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigThreads))
	if err != nil {
		return nil, err
	}
	store, err := sc.openStore()
	if err != nil {
		return nil, err
	}

	sc.autoplayMu.Lock()
	defer sc.autoplayMu.Unlock()
	if sc.autoplayDone != nil {
		return nil, automatic.ErrAlreadyPlaying
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sc.autoplayCancel = cancel
	sc.autoplayDone = done

	go func() {
		defer close(done)
		res, err := automatic.StartAutoplay(ctx, sc.config, store, games, threads)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Err(err).Msg("autoplay-failed")
		}
		sc.autoplayMu.Lock()
		if res != nil {
			sc.lastResults = res
		}
		sc.autoplayDone = nil
		sc.autoplayCancel = nil
		sc.autoplayMu.Unlock()
		if res != nil {
			log.Info().Msg("autoplay finished\n" + res.String())
		}
		cancel()
	}()
	return msg(fmt.Sprintf("started %d games; `autoplay stop` to stop, `autoplay show` for results", games)), nil
}

// stopAutoplay cancels a running autoplay and waits for it to wind down.
func (sc *ShellController) stopAutoplay() bool {
	sc.autoplayMu.Lock()
	cancel, done := sc.autoplayCancel, sc.autoplayDone
	sc.autoplayMu.Unlock()
	if done == nil {
		return false
	}
	cancel()
	<-done
	return true
}

// waitAutoplay blocks until a running autoplay finishes on its own.
func (sc *ShellController) waitAutoplay() {
	sc.autoplayMu.Lock()
	done := sc.autoplayDone
	sc.autoplayMu.Unlock()
	if done != nil {
		<-done
	}
}

func (sc *ShellController) recent(cmd *shellcmd) (*Response, error) {
	n := 10
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	store, err := sc.openStore()
	if err != nil {
		return nil, err
	}
	recs, err := store.RecentGames(context.Background(), n)
	if err != nil {
		return nil, err
	}
	lines := []string{"game                                  pieces lines attack  ds  top-out"}
	for _, r := range recs {
		lines = append(lines, fmt.Sprintf("%-36s %7d %5d %6d %3d  %v",
			r.GameID, r.Pieces, r.Lines, r.Attack, r.Downstack, r.ToppedOut))
	}
	return msg(strings.Join(lines, "\n")), nil
}
