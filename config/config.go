// Package config holds the runtime settings for the bot, the autoplay runner
// and the shell.
package config

import (
	"flag"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	ConfigDebug         = "debug"
	ConfigProfilesPath  = "profiles-path"
	ConfigProfile       = "profile"
	ConfigThreads       = "threads"
	ConfigDBPath        = "db-path"
	ConfigGames         = "games"
	ConfigPiecesPerGame = "pieces-per-game"
	ConfigGarbageEvery  = "garbage-every"
	ConfigSeed          = "seed"
	ConfigQueue         = "queue"
	ConfigPreview       = "preview"
	ConfigTurnLog       = "turn-log"
)

type Config struct {
	*viper.Viper
	args []string
}

// DefaultConfig returns a config populated only with defaults. It does not
// read flags, environment or config files.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigProfilesPath, "./data/profiles")
	c.SetDefault(ConfigProfile, "")
	c.SetDefault(ConfigThreads, 4)
	c.SetDefault(ConfigDBPath, "./data/stacker.db")
	c.SetDefault(ConfigGames, 10)
	c.SetDefault(ConfigPiecesPerGame, 500)
	c.SetDefault(ConfigGarbageEvery, 0)
	c.SetDefault(ConfigSeed, 0)
	c.SetDefault(ConfigQueue, "")
	c.SetDefault(ConfigPreview, 5)
	c.SetDefault(ConfigTurnLog, "")
}

// Load reads settings from, in increasing priority: defaults, an optional
// stacker.yaml in the working directory, STACKER_* environment variables,
// and the command-line args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()
	c.SetEnvPrefix("STACKER")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.AutomaticEnv()

	c.SetConfigName("stacker")
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	if err := c.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	fs := flag.NewFlagSet("stacker", flag.ContinueOnError)
	debug := fs.Bool(ConfigDebug, c.GetBool(ConfigDebug), "debug logging on")
	profilesPath := fs.String(ConfigProfilesPath, c.GetString(ConfigProfilesPath), "directory holding weight profile files")
	profile := fs.String(ConfigProfile, c.GetString(ConfigProfile), "weight profile file to use; empty means the built-in weights")
	threads := fs.Int(ConfigThreads, c.GetInt(ConfigThreads), "number of goroutines used for evaluation and autoplay")
	dbPath := fs.String(ConfigDBPath, c.GetString(ConfigDBPath), "sqlite database for autoplay results")
	games := fs.Int(ConfigGames, c.GetInt(ConfigGames), "number of autoplay games")
	pieces := fs.Int(ConfigPiecesPerGame, c.GetInt(ConfigPiecesPerGame), "piece limit per autoplay game")
	garbage := fs.Int(ConfigGarbageEvery, c.GetInt(ConfigGarbageEvery), "insert one garbage row every n pieces (0 = never)")
	seed := fs.Int64(ConfigSeed, c.GetInt64(ConfigSeed), "seed for the piece source and garbage holes")
	queue := fs.String(ConfigQueue, c.GetString(ConfigQueue), "fixed repeating piece sequence, e.g. IOTSZJL")
	preview := fs.Int(ConfigPreview, c.GetInt(ConfigPreview), "number of queued pieces visible to the bot")
	turnLog := fs.String(ConfigTurnLog, c.GetString(ConfigTurnLog), "CSV file that autoplay writes every turn to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.Set(ConfigDebug, *debug)
	c.Set(ConfigProfilesPath, *profilesPath)
	c.Set(ConfigProfile, *profile)
	c.Set(ConfigThreads, *threads)
	c.Set(ConfigDBPath, *dbPath)
	c.Set(ConfigGames, *games)
	c.Set(ConfigPiecesPerGame, *pieces)
	c.Set(ConfigGarbageEvery, *garbage)
	c.Set(ConfigSeed, *seed)
	c.Set(ConfigQueue, *queue)
	c.Set(ConfigPreview, *preview)
	c.Set(ConfigTurnLog, *turnLog)
	c.args = fs.Args()
	return nil
}

// Args returns the positional arguments left over after Load parsed the
// flags.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes the data paths absolute relative to basepath,
// usually the directory of the executable.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigProfilesPath, ConfigDBPath} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "~") {
			continue
		}
		c.Set(key, filepath.Join(basepath, p))
	}
}

func (c *Config) Debug() bool {
	return c.GetBool(ConfigDebug)
}
