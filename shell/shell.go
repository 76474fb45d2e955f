// Package shell is an interactive command line for setting up a decision
// state, looking at what the bot would do with it and stepping through
// games.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/stacker/automatic"
	"github.com/domino14/stacker/bot"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/equity"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/storage"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errExit              = errors.New("exit")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type Response struct {
	message string
}

func (r *Response) Message() string {
	if r == nil {
		return ""
	}
	return r.message
}

func msg(message string) *Response {
	return &Response{message: message}
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

// isOption reports whether a field names an option. A lone "-" (the empty
// hold slot) and negative numbers are plain arguments.
func isOption(field string) bool {
	if len(field) < 2 || field[0] != '-' {
		return false
	}
	_, err := strconv.Atoi(field)
	return err != nil
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if isOption(fields[i]) {
			if i+1 == len(fields) {
				return nil, errWrongOptionSyntax
			}
			key := fields[i][1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

type ShellController struct {
	l      *readline.Instance
	config *config.Config
	out    io.Writer

	state  *game.State
	game   *game.Game
	player *bot.BotTurnPlayer
	calc   *equity.HeuristicCalculator

	curGenPlays []*bot.Candidate

	store *storage.Store

	autoplayMu     sync.Mutex
	autoplayCancel context.CancelFunc
	autoplayDone   chan struct{}
	lastResults    *automatic.Results
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewController builds a controller without a terminal; output goes to
// out. NewShellController wraps it with readline.
func NewController(cfg *config.Config, out io.Writer) (*ShellController, error) {
	calc, err := equity.NewCalculatorFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &ShellController{
		config: cfg,
		out:    out,
		state:  &game.State{},
		calc:   calc,
		player: bot.NewBotTurnPlayer(calc, cfg.GetInt(config.ConfigThreads)),
	}, nil
}

func NewShellController(cfg *config.Config, prompt string) (*ShellController, error) {
	prompt = fmt.Sprintf("\033[31m%s>\033[0m ", prompt)
	sc, err := NewController(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     "/tmp/stacker_readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc, nil
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// Execute runs one command line.
func (sc *ShellController) Execute(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "quit":
		sc.stopAutoplay()
		return nil, errExit
	case "help":
		return sc.help(cmd)
	case "board":
		return sc.setBoard(cmd)
	case "queue":
		return sc.setQueue(cmd)
	case "hold":
		return sc.setHold(cmd)
	case "garbage":
		return sc.setGarbage(cmd)
	case "props":
		return sc.setProps(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "gen":
		return sc.generate(cmd)
	case "eval":
		return sc.eval(cmd)
	case "best":
		return sc.best(cmd)
	case "play":
		return sc.play(cmd)
	case "new":
		return sc.newGame(cmd)
	case "step":
		return sc.step(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "recent":
		return sc.recent(cmd)
	default:
		return nil, fmt.Errorf("command %v not found", strconv.Quote(cmd.cmd))
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	defer sc.closeStore()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.Execute(line)
		if errors.Is(err, errExit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if m := resp.Message(); m != "" {
			sc.showMessage(m)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) openStore() (*storage.Store, error) {
	if sc.store != nil {
		return sc.store, nil
	}
	s, err := storage.Open(sc.config.GetString(config.ConfigDBPath))
	if err != nil {
		return nil, err
	}
	sc.store = s
	return s, nil
}

func (sc *ShellController) closeStore() {
	sc.stopAutoplay()
	if sc.store != nil {
		sc.store.Close()
		sc.store = nil
	}
}
