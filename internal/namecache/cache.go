package namecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"reelchat/internal/logging"
)

// EntityKind separates the two name namespaces the resolver caches.
type EntityKind string

const (
	KindPerson  EntityKind = "person"
	KindKeyword EntityKind = "keyword"
)

// Entry represents a cached mapping from a normalized name to a catalog id.
type Entry struct {
	Kind     EntityKind `json:"kind"`
	Name     string     `json:"name"`
	ID       int64      `json:"id"`
	CachedAt time.Time  `json:"cached_at"`
}

// Cache provides thread-safe access to the name cache.
type Cache struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry // keyed by kind + name
}

// New creates a cache instance. If path is empty, the cache is non-functional
// (all operations become no-ops). The cache file is created lazily on first
// Store call.
func New(path string, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "namecache")

	c := &Cache{
		path:    path,
		logger:  logger,
		entries: make(map[string]Entry),
	}

	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load name cache",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"),
			logging.String(logging.FieldImpact, "previously resolved names will be searched again"))
	}

	return c
}

// Lookup returns the cached id for the given kind and name if found.
func (c *Cache) Lookup(kind EntityKind, name string) (int64, bool) {
	key, ok := entryKey(kind, name)
	if !ok || c.path == "" {
		return 0, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[key]
	return entry.ID, found
}

// Store adds or updates an entry and persists the cache to disk.
func (c *Cache) Store(kind EntityKind, name string, id int64) error {
	key, ok := entryKey(kind, name)
	if !ok {
		return errors.New("name cannot be empty")
	}
	if c.path == "" {
		return nil // no-op when path not configured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Kind:     kind,
		Name:     normalizeName(name),
		ID:       id,
		CachedAt: time.Now().UTC(),
	}

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached name mapping",
		logging.String("kind", string(kind)),
		logging.String("name", normalizeName(name)),
		logging.Int64("id", id))

	return nil
}

// Count returns the number of entries in the cache.
func (c *Cache) Count() int {
	if c.path == "" {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cleared name cache")
	return nil
}

func entryKey(kind EntityKind, name string) (string, bool) {
	name = normalizeName(name)
	if name == "" {
		return "", false
	}
	return string(kind) + "\x00" + name, true
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// load reads the cache from disk into memory.
func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for _, entry := range entries {
		if key, ok := entryKey(entry.Kind, entry.Name); ok {
			c.entries[key] = entry
		}
	}

	c.logger.Debug("loaded name cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))

	return nil
}

// save writes the cache to disk atomically.
func (c *Cache) save() error {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}

	// Sort for deterministic output
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		return entries[i].Name < entries[j].Name
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
