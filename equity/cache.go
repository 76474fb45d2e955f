package equity

import (
	"errors"
	"strings"

	"github.com/domino14/stacker/cache"
	"github.com/domino14/stacker/config"
)

// ProfilesCacheLoadFunc loads a profile file for the global object cache.
// The key looks like profiles:filename.
func ProfilesCacheLoadFunc(cfg *config.Config, key string) (any, error) {
	fields := strings.Split(key, ":")
	if fields[0] != "profiles" {
		return nil, errors.New("profilescacheloadfunc - bad cache key: " + key)
	}
	if len(fields) != 2 {
		return nil, errors.New("cache key missing fields")
	}
	return loadProfiles(cfg.GetString(config.ConfigProfilesPath), fields[1])
}

// ProfilesFromConfig returns the profile set named by the profile setting,
// or the built-in one when the setting is empty.
func ProfilesFromConfig(cfg *config.Config) (Profiles, error) {
	name := cfg.GetString(config.ConfigProfile)
	if name == "" {
		return DefaultProfiles(), nil
	}
	obj, err := cache.Load(cfg, "profiles:"+name, ProfilesCacheLoadFunc)
	if err != nil {
		return Profiles{}, err
	}
	return obj.(Profiles), nil
}

func NewCalculatorFromConfig(cfg *config.Config) (*HeuristicCalculator, error) {
	p, err := ProfilesFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewHeuristicCalculator(p), nil
}
