package snapshot

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"moviedash/internal/metrics"
)

// BuildFunc produces the snapshot for a key.
type BuildFunc func(ctx context.Context, key Key) (*Snapshot, error)

// Cache holds built snapshots by key. Concurrent misses for one key share a
// single build. Entries live until Invalidate or Purge.
type Cache struct {
	build  BuildFunc
	logger zerolog.Logger

	mu      sync.Mutex
	entries map[Key]*Snapshot
	// gen is bumped by Invalidate and Purge so a build that started before
	// the bump is returned to its callers but not stored.
	gen   uint64
	group singleflight.Group
}

// NewCache returns an empty cache that fills itself with build.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewCache(build BuildFunc, logger zerolog.Logger) *Cache {
	return &Cache{
		build:   build,
		logger:  logger.With().Str("component", "snapshot_cache").Logger(),
		entries: make(map[Key]*Snapshot),
	}
}

// Get returns the snapshot for key, building it on a miss. Build errors are
// returned and not cached.
func (c *Cache) Get(ctx context.Context, key Key) (*Snapshot, error) {
	c.mu.Lock()
	if s, ok := c.entries[key]; ok {
		c.mu.Unlock()
		metrics.CacheLookup(true)
		return s, nil
	}
	gen := c.gen
	c.mu.Unlock()
	metrics.CacheLookup(false)

	v, err, shared := c.group.Do(key.String(), func() (any, error) {
		// Another build may have finished between the lookup above and here.
		c.mu.Lock()
		if s, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return s, nil
		}
		c.mu.Unlock()

		s, err := c.build(ctx, key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.entries[key] = s
		}
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		c.logger.Error().Err(err).Stringer("key", key).Msg("snapshot build failed")
		return nil, err
	}
	if shared {
		c.logger.Debug().Stringer("key", key).Msg("joined in-flight snapshot build")
	}
	return v.(*Snapshot), nil
}

// Invalidate drops the snapshot for key and reports whether one was cached.
// The next Get rebuilds it.
func (c *Cache) Invalidate(key Key) bool {
	c.mu.Lock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.gen++
	c.mu.Unlock()
	c.group.Forget(key.String())

	c.logger.Info().Stringer("key", key).Bool("was_cached", ok).Msg("snapshot invalidated")
	return ok
}

// Purge drops every cached snapshot.
func (c *Cache) Purge() {
	c.mu.Lock()
	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.entries = make(map[Key]*Snapshot)
	c.gen++
	c.mu.Unlock()

	for _, k := range keys {
		c.group.Forget(k.String())
	}
	c.logger.Info().Int("dropped", len(keys)).Msg("snapshot cache purged")
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
