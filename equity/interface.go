// Package equity scores boards. The score ("equity") of a candidate
// placement is the evaluation of the state that placement produces;
// higher is better.
package equity

import "github.com/domino14/stacker/game"

// EquityCalculator evaluates a decision state. Implementations must be
// pure: the same state always yields the same score, and the state is
// never modified, so a calculator may be shared between goroutines.
type EquityCalculator interface {
	Evaluate(st *game.State) float32
	Type() string
}
