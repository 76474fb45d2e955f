package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/domino14/stacker/automatic"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/shell"
	"github.com/domino14/stacker/storage"
)

var shellCmd = &cobra.Command{
	Use:   "shell [command]",
	Short: "Interactive shell",
	Long: `Starts the interactive shell. With arguments, runs them as a single
shell command and exits.`,
	RunE: runShell,
}

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Let the bot play games",
	Long: `Plays -games games over -threads goroutines, stores each one in the
database at -db-path and prints a summary. Ctrl-C stops early and prints
what was played so far.`,
	RunE: runAutoplay,
}

var evalCmd = &cobra.Command{
	Use:   "eval [rows...]",
	Short: "Score a board and show the best placement",
	Long: `Scores the board given as rows (top to bottom, bottom-aligned, X for
filled and . for empty) with the pieces given by -queue, then shows the
best placement.`,
	RunE: runEval,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <turn-log>",
	Short: "Summarize an autoplay turn log",
	RunE:  runAnalyze,
}

var topCmd = &cobra.Command{
	Use:   "top [n]",
	Short: "Best stored autoplay games for the current profile",
	RunE:  runTop,
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, args, err := loadConfig(args)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		sc, err := shell.NewController(cfg, os.Stdout)
		if err != nil {
			return err
		}
		resp, err := sc.Execute(shellquote.Join(args...))
		if err != nil {
			return err
		}
		fmt.Println(resp.Message())
		return nil
	}

	sc, err := shell.NewShellController(cfg, "stacker")
	if err != nil {
		return err
	}
	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()
	go sc.Loop(sig)
	<-idleConnsClosed
	return nil
}

func runAutoplay(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(args)
	if err != nil {
		return err
	}
	store, err := storage.Open(cfg.GetString(config.ConfigDBPath))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := automatic.StartAutoplay(ctx, cfg, store,
		cfg.GetInt(config.ConfigGames), cfg.GetInt(config.ConfigThreads))
	if res != nil {
		fmt.Println(res.String())
		fmt.Println()
		if herr := res.AttackPerPiece.Histogram(os.Stdout, 10, 50); herr != nil {
			return herr
		}
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, rows, err := loadConfig(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	sc, err := shell.NewController(cfg, out)
	if err != nil {
		return err
	}
	lines := []string{shellquote.Join(append([]string{"board"}, rows...)...)}
	if q := cfg.GetString(config.ConfigQueue); q != "" {
		lines = append(lines, "queue "+q, "show", "eval", "best")
	} else {
		lines = append(lines, "show", "eval")
	}
	for i, l := range lines {
		resp, err := sc.Execute(l)
		if err != nil {
			return fmt.Errorf("%s: %w", l, err)
		}
		if i > 0 {
			fmt.Fprintln(out, resp.Message())
		}
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	_, args, err := loadConfig(args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: stacker analyze <turn-log>")
	}
	summary, err := automatic.AnalyzeLogFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}

func runTop(cmd *cobra.Command, args []string) error {
	cfg, args, err := loadConfig(args)
	if err != nil {
		return err
	}
	n := 10
	if len(args) > 0 {
		if n, err = strconv.Atoi(args[0]); err != nil {
			return err
		}
	}
	store, err := storage.Open(cfg.GetString(config.ConfigDBPath))
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.TopGames(context.Background(), cfg.GetString(config.ConfigProfile), n)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No games stored.")
		return nil
	}
	fmt.Printf("  %-36s  %6s  %5s  %6s  %4s  %s\n", "Game", "Pieces", "Lines", "Attack", "Seed", "Played")
	fmt.Printf("  %s\n", strings.Repeat("-", 86))
	for _, r := range recs {
		fmt.Printf("  %-36s  %6d  %5d  %6d  %4d  %s\n", r.GameID, r.Pieces, r.Lines,
			r.Attack, r.Seed, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
