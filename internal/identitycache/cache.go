package identitycache

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"lol-denylist/internal/domain"

	"github.com/rs/zerolog"
)

// Cache maps a case-folded "name#tag" key to the player's puuid. Identities
// do not change, so entries have no TTL. The mapping is mirrored in memory
// and written through to disk on every store.
type Cache struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
	logger  zerolog.Logger
}

// New loads the persisted mapping if present and well-formed. A missing or
// malformed file starts the cache empty; an unpersisted entry is rebuilt on
// the next successful lookup, so startup never fails here.
func New(path string, logger zerolog.Logger) *Cache {
	c := &Cache{
		path:    path,
		entries: make(map[string]string),
		logger:  logger,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", path).Msg("failed to read puuid cache, starting empty")
		}
		return c
	}
	if err := json.Unmarshal(raw, &c.entries); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("malformed puuid cache, starting empty")
		c.entries = make(map[string]string)
		return c
	}

	logger.Info().Int("entries", len(c.entries)).Str("path", path).Msg("puuid cache loaded")
	return c
}

// Key folds a name+tag pair into the canonical cache key.
func Key(name, tag string) string {
	return strings.ToLower(name + "#" + tag)
}

// Resolve looks up the puuid for a name+tag pair. It never performs network
// I/O.
func (c *Cache) Resolve(name, tag string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	puuid, ok := c.entries[Key(name, tag)]
	return puuid, ok
}

// Store inserts or overwrites the mapping and persists the full map
// synchronously. A persist failure is reported but the in-memory entry is
// kept; durability here is best-effort.
func (c *Cache) Store(name, tag, puuid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[Key(name, tag)] = puuid

	raw, err := json.Marshal(c.entries)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Path: c.path, Err: err}
	}
	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		return &domain.PersistenceError{Op: "write", Path: c.path, Err: err}
	}
	return nil
}

// Len reports the number of cached identities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
