package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/domino14/stacker/stats"
)

// AnalyzeLogFile reads a turn log written by autoplay and summarizes it.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return AnalyzeLog(file)
}

func AnalyzeLog(rd io.Reader) (string, error) {
	r := csv.NewReader(rd)

	type gameTotals struct {
		pieces, attack, lines int
	}
	games := map[string]*gameTotals{}
	var order []string

	equities := stats.NewSummary("equity")
	attacks := stats.NewSummary("attack/turn")
	holdUses := 0
	turns := 0

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == "gameID" {
			continue
		}
		if len(record) != 11 {
			return "", fmt.Errorf("line %d: expected 11 fields, got %d", turns+2, len(record))
		}
		ints := make([]int, 0, 6)
		for _, f := range []string{record[1], record[5], record[7], record[8]} {
			v, err := strconv.Atoi(f)
			if err != nil {
				return "", err
			}
			ints = append(ints, v)
		}
		eq, err := strconv.ParseFloat(record[10], 64)
		if err != nil {
			return "", err
		}

		gt, ok := games[record[0]]
		if !ok {
			gt = &gameTotals{}
			games[record[0]] = gt
			order = append(order, record[0])
		}
		gt.pieces = ints[0]
		gt.lines = ints[2]
		gt.attack = ints[3]

		turns++
		attacks.Add(float64(ints[1]))
		equities.Add(eq)
		if strings.HasPrefix(record[4], "hold") {
			holdUses++
		}
	}
	if turns == 0 {
		return "", fmt.Errorf("no turns in log")
	}

	pieces := stats.NewSummary("pieces")
	lines := stats.NewSummary("lines")
	attack := stats.NewSummary("attack")
	for _, id := range order {
		gt := games[id]
		pieces.Add(float64(gt.pieces))
		lines.Add(float64(gt.lines))
		attack.Add(float64(gt.attack))
	}

	out := fmt.Sprintf("Games: %d\nTurns: %d\n", len(order), turns)
	out += fmt.Sprintf("Hold used: %d (%.3f%%)\n", holdUses, 100.0*float64(holdUses)/float64(turns))
	out += stats.Report(pieces, lines, attack, attacks, equities) + "\n"
	return out, nil
}
