package equity_test

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"lukechampine.com/frand"

	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/equity"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/piece"
)

func stateFor(rows ...string) *game.State {
	return &game.State{
		Board: board.MustFromRows(rows...),
		Queue: []piece.Piece{piece.T},
	}
}

func fullRows(n int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = "XXXXXXXXXX"
	}
	return rows
}

func repeatRow(row string, n int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = row
	}
	return rows
}

func TestGoldenScores(t *testing.T) {
	calc := equity.NewHeuristicCalculator(equity.DefaultProfiles())

	sandbox := stateFor(
		"X.........",
		"X....XX.X.",
		"X.XXXXXXXX",
		"XXX.XXXXXX",
	)
	sandbox.Props = game.Props{Atk: 1, DS: 2}

	props := stateFor()
	props.Props = game.Props{Atk: 2, DS: 1, SumAtk: 10, SumDS: 3}

	type testcase struct {
		name string
		st   *game.State
		bits uint32
	}
	for _, tc := range []testcase{
		{"empty", stateFor(), 0xc37a0000},
		{"sandbox", sandbox, 0xc513e999},
		{"fourteen-rows", stateFor(fullRows(14)...), 0xc44a8000},
		{"fifteen-rows", stateFor(fullRows(15)...), 0xc5cb2000},
		{"right-well", stateFor(repeatRow("XXXXXXXXX.", 10)...), 0xc37a0000},
		{"single-cell", stateFor("X........."), 0xc375fffd},
		{"props-only", props, 0x441c4000},
	} {
		t.Run(tc.name, func(t *testing.T) {
			score := calc.Evaluate(tc.st)
			assert.Equal(t, tc.bits, math.Float32bits(score),
				"got %v (%#x)", score, math.Float32bits(score))
		})
	}
}

func TestSandboxBreakdown(t *testing.T) {
	is := is.New(t)
	calc := equity.NewHeuristicCalculator(equity.DefaultProfiles())
	st := stateFor(
		"X.........",
		"X....XX.X.",
		"X.XXXXXXXX",
		"XXX.XXXXXX",
	)
	st.Props = game.Props{Atk: 1, DS: 2}
	bd := calc.EvaluateBreakdown(st)

	is.Equal(bd.Heights, [board.Width]int{16, 19, 18, 18, 18, 17, 17, 18, 17, 18})
	is.Equal(bd.Holes, float32(1))
	is.Equal(bd.HoleDepthSumSq, float32(1))
	is.True(bd.Downstack)
	is.Equal(bd.Well, equity.NoWell)
	is.Equal(math.Float32bits(bd.Average), uint32(0x418ccccd)) // 17.6
	is.Equal(bd.AdjustedAverage, bd.Average)
	is.Equal(math.Float32bits(bd.GlobalDeviation), uint32(0x40cccccf))
	is.Equal(bd.LocalDeviation, float32(14))
	is.Equal(bd.Score, calc.Evaluate(st))
}

func TestWellExclusion(t *testing.T) {
	is := is.New(t)
	calc := equity.NewHeuristicCalculator(equity.DefaultProfiles())

	// A tetris-ready stack with column 9 open.
	bd := calc.EvaluateBreakdown(stateFor(repeatRow("XXXXXXXXX.", 10)...))
	is.Equal(bd.Well, 9)
	is.Equal(bd.GlobalDeviation, float32(0))
	is.Equal(bd.LocalDeviation, float32(0))
	is.True(!bd.Downstack)

	// A bumpy surface with a deep column in the middle.
	bd = calc.EvaluateBreakdown(stateFor(
		".X.X..X.X.",
		"XXXX.XXXXX",
		"XXXX.XXXXX",
		"XXXX.XXXXX",
		"XXXX.XXXXX",
	))
	is.Equal(bd.Heights, [board.Width]int{16, 15, 16, 15, 20, 16, 15, 16, 15, 16})
	is.Equal(bd.Well, 4)
	is.Equal(math.Float32bits(bd.AdjustedAverage), uint32(0x4178e38e))
	is.Equal(math.Float32bits(bd.GlobalDeviation), uint32(0x400e38e4))
	// Pairs (3,4) and (4,5) are skipped.
	is.Equal(bd.LocalDeviation, float32(7))
	is.Equal(math.Float32bits(bd.Score), uint32(0xc2213c0c))
}

func TestWellFirstFoundWins(t *testing.T) {
	is := is.New(t)
	calc := equity.NewHeuristicCalculator(equity.DefaultProfiles())
	// Columns 0 and 9 are equally deep; the earlier one is kept.
	bd := calc.EvaluateBreakdown(stateFor(repeatRow(".XXXXXXXX.", 8)...))
	is.Equal(bd.Well, 0)
}

func TestSingleCellHasNoWell(t *testing.T) {
	is := is.New(t)
	calc := equity.NewHeuristicCalculator(equity.DefaultProfiles())
	// Empty columns sit only 0.1 below the average height, well short of
	// the threshold.
	bd := calc.EvaluateBreakdown(stateFor("X........."))
	is.Equal(bd.Well, equity.NoWell)
	is.Equal(bd.LocalDeviation, float32(1))
	is.Equal(math.Float32bits(bd.GlobalDeviation), uint32(0x3f666662))
	is.True(!bd.Downstack)
}

func TestModeSwitch(t *testing.T) {
	is := is.New(t)
	calc := equity.NewHeuristicCalculator(equity.DefaultProfiles())

	is.True(!calc.EvaluateBreakdown(stateFor(fullRows(14)...)).Downstack)
	is.True(calc.EvaluateBreakdown(stateFor(fullRows(15)...)).Downstack)
	// Any hole forces downstack mode even on a low stack.
	is.True(calc.EvaluateBreakdown(stateFor("X.........", ".XXXXXXXXX")).Downstack)
}

func TestDeterministicAndPure(t *testing.T) {
	is := is.New(t)
	calc := equity.NewHeuristicCalculator(equity.DefaultProfiles())
	st := stateFor("XX..XXX...", "XXX.XXXXX.", "XXXXXXXX.X")
	st.Props = game.Props{Atk: 4, SumAtk: 9, SumDS: 2, B2B: 1}
	before := st.Clone()

	first := calc.Evaluate(st)
	for i := 0; i < 50; i++ {
		is.Equal(math.Float32bits(calc.Evaluate(st)), math.Float32bits(first))
	}
	is.Equal(st.Board, before.Board)
	is.Equal(st.Props, before.Props)
	is.Equal(st.Queue, before.Queue)
}

func TestConcurrentEvaluate(t *testing.T) {
	calc := equity.NewHeuristicCalculator(equity.DefaultProfiles())
	st := stateFor("X.X.X.X.X.", "XXXXX.XXXX")
	want := calc.Evaluate(st)

	var wg sync.WaitGroup
	errs := make(chan float32, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := calc.Evaluate(st); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent score %v != %v", got, want)
	}
}

func randomBoard(rng *frand.RNG) board.Board {
	var b board.Board
	top := 8 + rng.Intn(10)
	for y := top; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			if rng.Intn(3) > 0 {
				b.Set(x, y)
			}
		}
	}
	return b
}

func TestHoleCountMonotonic(t *testing.T) {
	calc := equity.NewHeuristicCalculator(equity.DefaultProfiles())
	var seed [32]byte
	seed[0] = 7
	rng := frand.NewCustom(seed[:], 1024, 12)

	for i := 0; i < 200; i++ {
		b := randomBoard(rng)
		before := calc.EvaluateBreakdown(&game.State{Board: b})
		for x := 0; x < board.Width; x++ {
			for y := board.Height - 1; y > 0; y-- {
				if b.Occupied(x, y) {
					continue
				}
				// (x, y) is a hole only if something sits above it.
				if before.Heights[x] >= y {
					continue
				}
				for ya := 0; ya < before.Heights[x]; ya++ {
					nb := b
					nb.Set(x, ya)
					after := calc.EvaluateBreakdown(&game.State{Board: nb})
					if after.Holes < before.Holes {
						t.Fatalf("holes dropped from %v to %v after filling (%d,%d)\n%v",
							before.Holes, after.Holes, x, ya, b)
					}
				}
			}
		}
	}
}

func TestMoreHolesScoresLower(t *testing.T) {
	calc := equity.NewHeuristicCalculator(equity.DefaultProfiles())
	one := stateFor("XXXXXXXXXX", "X.XXXXXXXX")
	two := stateFor("XXXXXXXXXX", "X.XXXX.XXX")
	assert.Less(t, calc.Evaluate(two), calc.Evaluate(one))
}

func TestOffenseTermsLinear(t *testing.T) {
	is := is.New(t)
	calc := equity.NewHeuristicCalculator(equity.DefaultProfiles())
	base := calc.Evaluate(stateFor())
	st := stateFor()
	st.Props.Atk = 1
	// Normal mode values one line of attack at 35.
	is.Equal(calc.Evaluate(st)-base, float32(35))
	st.Props = game.Props{SumAtk: 1}
	// eff (50) plus sum_attack (40).
	is.Equal(calc.Evaluate(st)-base, float32(90))
}

func TestTraceLoggingDoesNotChangeScore(t *testing.T) {
	is := is.New(t)
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(prev)

	var sb strings.Builder
	logger := zerolog.New(&sb).Level(zerolog.TraceLevel)
	plain := equity.NewHeuristicCalculator(equity.DefaultProfiles())
	traced := plain.WithLogger(logger)

	st := stateFor("X.........", "X....XX.X.", "X.XXXXXXXX", "XXX.XXXXXX")
	is.Equal(traced.Evaluate(st), plain.Evaluate(st))
	is.True(strings.Contains(sb.String(), `"message":"evaluate"`))
	is.True(strings.Contains(sb.String(), `"holes":1`))
}

func TestCustomProfiles(t *testing.T) {
	is := is.New(t)
	p := equity.DefaultProfiles()
	p.Normal.AverageH = 0
	calc := equity.NewHeuristicCalculator(p)
	is.Equal(calc.Evaluate(stateFor()), float32(0))
	// The built-in set is untouched.
	is.Equal(equity.DefaultProfiles().Normal.AverageH, float32(-10))
	is.Equal(calc.Profiles().Normal.AverageH, float32(0))
}
