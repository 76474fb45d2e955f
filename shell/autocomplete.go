package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter completes command names, then the arguments and options
// each command takes. It implements readline.AutoCompleter.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

type completions struct {
	args    []string
	options []string
	// values completes the word after an option.
	values map[string][]string
}

var commandNames = []string{
	"help", "board", "queue", "hold", "garbage", "props", "show", "gen",
	"eval", "best", "play", "new", "step", "autoplay", "recent", "exit",
}

var commandCompletions = map[string]completions{
	"board": {args: []string{"clear"}},
	"hold":  {args: []string{"-", "I", "O", "T", "S", "Z", "J", "L"}},
	"props": {options: []string{"-atk", "-ds", "-sumatk", "-sumds", "-b2b", "-combo", "-lines"}},
	"eval": {
		options: []string{"-trace"},
		values:  map[string][]string{"-trace": {"true", "false"}},
	},
	"play":     {args: []string{"left", "right", "cw", "ccw", "a", "hold", "drop"}},
	"new":      {options: []string{"-seed", "-queue"}},
	"autoplay": {args: []string{"stop", "show"}, options: []string{"-threads"}},
	"help":     {args: commandNames},
}

// splitLine returns the complete words before the cursor and the partial
// word being typed (empty right after a space).
func splitLine(text string) ([]string, string) {
	words, err := shellquote.Split(text)
	if err != nil {
		// An open quote; complete on plain whitespace instead.
		words = strings.Fields(text)
	}
	if len(words) == 0 || strings.HasSuffix(text, " ") {
		return words, ""
	}
	return words[:len(words)-1], words[len(words)-1]
}

func candidates(words []string, partial string) []string {
	if len(words) == 0 {
		return commandNames
	}
	cc, ok := commandCompletions[words[0]]
	if !ok {
		return nil
	}
	if vals, ok := cc.values[words[len(words)-1]]; ok {
		return vals
	}
	if len(cc.options) > 0 && (strings.HasPrefix(partial, "-") || len(cc.args) == 0) {
		return cc.options
	}
	return cc.args
}

func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	words, partial := splitLine(string(line[:pos]))
	var out [][]rune
	for _, cand := range candidates(words, partial) {
		if strings.HasPrefix(cand, partial) {
			out = append(out, []rune(cand[len(partial):]))
		}
	}
	return out, len(partial)
}
