// stacker is the command line for the placement bot.
//
// Usage:
//
//	stacker shell [command]        - Interactive shell, or run one shell command
//	stacker autoplay               - Let the bot play games and report the results
//	stacker eval [rows...]         - Score a board and show the best placement
//	stacker analyze <turn-log>     - Summarize an autoplay turn log
//	stacker top [n]                - Best stored autoplay games
//
// Every subcommand takes the settings as flags before its arguments, e.g.
//
//	stacker autoplay -games 100 -threads 8 -garbage-every 10
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/domino14/stacker/config"
)

var (
	GitVersion string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stacker",
	Short: "stacker - a Tetris placement bot",
	Long: `stacker picks where to put each falling piece: it lists every place
the current piece (or the held one) can land, scores each resulting board and
keeps the best.

Available commands:
  shell     - Interactive shell for setting up boards and stepping through games
  autoplay  - Let the bot play games and report the results
  eval      - Score a board and show the best placement
  analyze   - Summarize an autoplay turn log
  top       - Best stored autoplay games

Examples:
  stacker shell
  stacker autoplay -games 100 -threads 8
  stacker eval -queue TSZ XX......XX XXXX.XXXXX
  stacker analyze /tmp/turns.csv`,
	SilenceUsage: true,
}

func init() {
	for _, c := range []*cobra.Command{shellCmd, autoplayCmd, evalCmd, analyzeCmd, topCmd} {
		// Settings are parsed by config.Load so that they work the same way
		// for every subcommand and in the environment.
		c.DisableFlagParsing = true
		rootCmd.AddCommand(c)
	}
	rootCmd.Version = GitVersion
}

// loadConfig reads the settings and sets up logging. It returns the
// arguments left after the flags. -h prints the settings and returns
// flag.ErrHelp.
func loadConfig(args []string) (*config.Config, []string, error) {
	cfg := &config.Config{}
	if err := cfg.Load(args); err != nil {
		return nil, nil, err
	}
	ex, err := os.Executable()
	if err != nil {
		return nil, nil, err
	}
	cfg.AdjustRelativePaths(filepath.Dir(ex))
	setupLogging(cfg)
	log.Debug().Interface("settings", cfg.AllSettings()).Msg("loaded-config")
	return cfg, cfg.Args(), nil
}

func setupLogging(cfg *config.Config) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.Debug() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
}
