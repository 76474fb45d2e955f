package config

import (
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.GetInt(ConfigThreads), 4)
	is.Equal(c.GetString(ConfigProfile), "")
	is.True(!c.Debug())
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"-threads", "9", "-debug", "-queue", "TSZ"})
	is.NoErr(err)
	is.Equal(c.GetInt(ConfigThreads), 9)
	is.Equal(c.GetString(ConfigQueue), "TSZ")
	is.True(c.Debug())
	// untouched keys keep defaults
	is.Equal(c.GetInt(ConfigPiecesPerGame), 500)
	is.Equal(len(c.Args()), 0)
}

func TestLoadLeavesPositionalArgs(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{"-seed", "4", "XX......XX", "XXXX.XXXXX"}))
	is.Equal(c.GetInt64(ConfigSeed), int64(4))
	is.Equal(c.Args(), []string{"XX......XX", "XXXX.XXXXX"})
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("STACKER_GAMES", "33")
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.GetInt(ConfigGames), 33)
}

func TestAdjustRelativePaths(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	c.Set(ConfigDBPath, "/abs/stacker.db")
	c.AdjustRelativePaths("/opt/stacker")
	is.Equal(c.GetString(ConfigProfilesPath), filepath.Join("/opt/stacker", "data/profiles"))
	is.Equal(c.GetString(ConfigDBPath), "/abs/stacker.db")
}
