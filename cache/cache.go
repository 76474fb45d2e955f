// Package cache keeps objects that are expensive to load and read-only
// once loaded, such as weight profile files. A shell session or an
// autoplay run asks for the same profile many times; it is parsed once.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/stacker/config"
)

type loadFunc func(cfg *config.Config, key string) (any, error)

type objectCache struct {
	mu      sync.Mutex
	objects map[string]any
}

// GlobalObjectCache is the process-wide object cache.
var GlobalObjectCache *objectCache

var globalMu sync.Mutex

func newObjectCache() *objectCache {
	return &objectCache{objects: make(map[string]any)}
}

// CreateGlobalObjectCache replaces the global cache with an empty one.
func CreateGlobalObjectCache() {
	globalMu.Lock()
	defer globalMu.Unlock()
	GlobalObjectCache = newObjectCache()
}

func global() *objectCache {
	globalMu.Lock()
	defer globalMu.Unlock()
	if GlobalObjectCache == nil {
		GlobalObjectCache = newObjectCache()
	}
	return GlobalObjectCache
}

// getOrLoad holds the lock across the load so two callers asking for the
// same key never parse it twice.
func (c *objectCache) getOrLoad(cfg *config.Config, key string, lf loadFunc) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("cache-hit")
		return obj, nil
	}
	log.Debug().Str("key", key).Msg("cache-load")
	obj, err := lf(cfg, key)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

// Load returns the object stored under key, calling lf to create it on
// first use. A failed load is not cached.
func Load(cfg *config.Config, key string, lf loadFunc) (any, error) {
	return global().getOrLoad(cfg, key, lf)
}
