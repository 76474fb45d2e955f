package equity

import (
	"github.com/rs/zerolog"

	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/game"
)

const (
	fieldW = float32(board.Width)
	fieldH = float32(board.Height)

	// NoWell is the Breakdown.Well value when no well was found.
	NoWell = -1
)

// Breakdown exposes the intermediate values of one evaluation.
type Breakdown struct {
	// Heights are row indices of each column's top cell (Height if empty).
	Heights [board.Width]int
	// Average is the raw mean of Heights; AdjustedAverage leaves out the
	// well column when there is one.
	Average         float32
	AdjustedAverage float32

	Holes          float32
	HoleDepthSumSq float32
	Downstack      bool
	Well           int

	GlobalDeviation float32
	LocalDeviation  float32
	Score           float32
}

// HeuristicCalculator is the hand-tuned board evaluator: holes, stack
// height, surface smoothness with a single well allowed, and offense.
type HeuristicCalculator struct {
	profiles Profiles
	logger   zerolog.Logger
}

// NewHeuristicCalculator builds a calculator around the given profiles.
// Use DefaultProfiles() for the built-in weights.
func NewHeuristicCalculator(p Profiles) *HeuristicCalculator {
	return &HeuristicCalculator{profiles: p, logger: zerolog.Nop()}
}

// WithLogger returns a copy that traces each evaluation step to l at trace
// level. Tracing never changes a score.
func (hc *HeuristicCalculator) WithLogger(l zerolog.Logger) *HeuristicCalculator {
	c := *hc
	c.logger = l
	return &c
}

func (hc *HeuristicCalculator) Profiles() Profiles {
	return hc.profiles
}

func (hc *HeuristicCalculator) Type() string {
	return "HeuristicCalculator"
}

func (hc *HeuristicCalculator) Evaluate(st *game.State) float32 {
	var bd Breakdown
	return hc.evaluate(st, &bd)
}

func (hc *HeuristicCalculator) EvaluateBreakdown(st *game.State) Breakdown {
	var bd Breakdown
	hc.evaluate(st, &bd)
	return bd
}

// evaluate is written as a sequence of float32 operations in a fixed
// order. Every product is converted explicitly so the compiler cannot fuse
// it into a multiply-add, which keeps scores bit-identical across
// platforms.
func (hc *HeuristicCalculator) evaluate(st *game.State, bd *Breakdown) float32 {
	b := st.Board
	p := st.Props
	var score float32

	h := b.Heights()
	sum := 0
	for _, v := range h {
		sum += v
	}
	avg := float32(sum) / fieldW

	var holes, depthSumSq float32
	for x := 0; x < board.Width; x++ {
		for y := h[x] + 1; y < board.Height; y++ {
			if !b.Occupied(x, y) {
				holes++
				d := float32(y - h[x])
				depthSumSq += float32(d * d)
			}
		}
	}

	prof := hc.profiles.Normal
	downstack := false
	if fieldH-avg > hc.profiles.DSHeightThreshold || holes > 0 {
		score += hc.profiles.DSModePenalty
		prof = hc.profiles.Downstack
		downstack = true
	}
	w, f := prof.Weights, prof.Factors

	score += float32(holes * w.Hole)
	score += float32(depthSumSq * w.HoleDepth)

	// The deepest column at least WellThreshold below average is the well.
	// Only a strictly deeper column displaces an earlier one.
	well := NoWell
	for x := 0; x < board.Width; x++ {
		d := avg - float32(h[x])
		if d < 0 && -d >= f.WellThreshold {
			if well == NoWell || avg-float32(h[well]) > d {
				well = x
			}
		}
	}
	rawAvg := avg
	if well != NoWell {
		avg = (float32(avg*fieldW) - float32(h[well])) / (fieldW - 1)
	}

	trueHeight := fieldH - avg
	dh := abs32(trueHeight - f.IdealH)
	score += float32(float32(w.AverageH*dh) * dh)

	var globalSq float32
	for x := 0; x < board.Width; x++ {
		if x == well {
			continue
		}
		d := avg - float32(h[x])
		globalSq += float32(d * d)
	}
	score += float32(globalSq * w.HGlobalDeviation)

	var localSq float32
	for x := 1; x < board.Width; x++ {
		if well != NoWell && (x == well || x == well+1) {
			continue
		}
		d := float32(absInt(h[x] - h[x-1]))
		localSq += float32(d * d)
	}
	score += float32(localSq * w.HLocalDeviation)

	score += float32(float32(p.SumAtk-p.SumDS) * w.Eff)
	score += float32(float32(p.SumAtk) * w.SumAttack)
	score += float32(float32(p.SumDS) * w.SumDownstack)
	score += float32(float32(p.Atk) * w.Attack)
	score += float32(float32(p.DS) * w.Downstack)

	if e := hc.logger.Trace(); e.Enabled() {
		e.Ints("heights", h[:]).
			Float32("avg", rawAvg).
			Float32("holes", holes).
			Float32("hole-depth-sq", depthSumSq).
			Bool("downstack", downstack).
			Int("well", well).
			Float32("adjusted-avg", avg).
			Float32("global-dev-sq", globalSq).
			Float32("local-dev-sq", localSq).
			Int("sum-atk", p.SumAtk).
			Int("sum-ds", p.SumDS).
			Float32("score", score).
			Msg("evaluate")
	}

	*bd = Breakdown{
		Heights:         h,
		Average:         rawAvg,
		AdjustedAverage: avg,
		Holes:           holes,
		HoleDepthSumSq:  depthSumSq,
		Downstack:       downstack,
		Well:            well,
		GlobalDeviation: globalSq,
		LocalDeviation:  localSq,
		Score:           score,
	}
	return score
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func absInt(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
