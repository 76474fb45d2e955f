package game

import (
	"fmt"
	"strings"

	"github.com/domino14/stacker/piece"
)

func splitSubN(s string, n int) []string {
	sub := ""
	subs := []string{}

	runes := []rune(s)
	l := len(runes)
	for i, r := range runes {
		sub = sub + string(r)
		if (i+1)%n == 0 {
			subs = append(subs, sub)
			sub = ""
		} else if (i + 1) == l {
			subs = append(subs, sub)
		}
	}
	return subs
}

func addText(lines []string, row int, hpad int, text string) {
	maxTextSize := 32
	for _, chunk := range splitSubN(text, maxTextSize) {
		if row >= len(lines) {
			return
		}
		lines[row] = lines[row] + strings.Repeat(" ", hpad) + chunk
		row++
	}
}

// ToDisplayText draws the board with the queue, hold slot and counters
// alongside it.
func (g *Game) ToDisplayText() string {
	st := g.state
	bts := strings.Split(strings.TrimSuffix(st.Board.ToDisplayText(), "\n"), "\n")
	hpadding := 3
	vpadding := 2

	addText(bts, vpadding, hpadding, "Hold: "+st.Hold.String())
	addText(bts, vpadding+1, hpadding, "Next: "+piece.QueueString(st.Queue))

	p := st.Props
	addText(bts, vpadding+3, hpadding, fmt.Sprintf("Turn %d", g.turn))
	addText(bts, vpadding+4, hpadding, fmt.Sprintf("Lines: %d", p.Lines))
	addText(bts, vpadding+5, hpadding, fmt.Sprintf("Attack: %d (last %d)", p.SumAtk, p.Atk))
	addText(bts, vpadding+6, hpadding, fmt.Sprintf("Downstack: %d (last %d)", p.SumDS, p.DS))
	addText(bts, vpadding+7, hpadding, fmt.Sprintf("Combo: %d  B2B: %d", p.Combo, p.B2B))
	addText(bts, vpadding+8, hpadding, fmt.Sprintf("Garbage rows: %d", st.Garbage))

	if len(g.history) > 0 {
		addText(bts, vpadding+10, hpadding, "Last: "+g.history[len(g.history)-1].ShortDescription())
	}
	if !g.playing {
		addText(bts, vpadding+12, hpadding, "Game is over.")
	}
	return strings.Join(bts, "\n") + "\n"
}
