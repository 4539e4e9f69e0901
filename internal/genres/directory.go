package genres

import (
	"sort"
	"strings"
	"sync"
	"time"

	"reelchat/internal/catalog"
)

// Snapshot is one complete build of both taxonomies. Snapshots are immutable
// once published; the directory replaces them wholesale.
type Snapshot struct {
	Movie     map[string]int64 `json:"movie"`
	TV        map[string]int64 `json:"tv"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// NewSnapshot builds a snapshot from the two taxonomy listings, lowercasing
// genre names for lookup.
func NewSnapshot(movie, tv []catalog.Genre, fetchedAt time.Time) *Snapshot {
	snap := &Snapshot{
		Movie:     make(map[string]int64, len(movie)),
		TV:        make(map[string]int64, len(tv)),
		FetchedAt: fetchedAt,
	}
	for _, genre := range movie {
		if name := strings.ToLower(strings.TrimSpace(genre.Name)); name != "" {
			snap.Movie[name] = genre.ID
		}
	}
	for _, genre := range tv {
		if name := strings.ToLower(strings.TrimSpace(genre.Name)); name != "" {
			snap.TV[name] = genre.ID
		}
	}
	return snap
}

func (s *Snapshot) kindMap(kind catalog.MediaKind) map[string]int64 {
	if s == nil {
		return nil
	}
	switch kind {
	case catalog.MediaKindMovie:
		return s.Movie
	case catalog.MediaKindTV:
		return s.TV
	default:
		return nil
	}
}

// Directory provides synchronous read access to the latest snapshot. All
// mutation goes through Replace; readers never observe a partial rebuild.
type Directory struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func NewDirectory() *Directory {
	return &Directory{}
}

// Replace publishes a new complete snapshot.
func (d *Directory) Replace(snap *Snapshot) {
	if snap == nil {
		return
	}
	d.mu.Lock()
	d.snap = snap
	d.mu.Unlock()
}

// Lookup resolves a genre name in the given taxonomy. Names are matched
// case-insensitively.
func (d *Directory) Lookup(kind catalog.MediaKind, name string) (int64, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.snap.kindMap(kind)[name]
	return id, ok
}

// Names returns the sorted genre names known for the given taxonomy.
func (d *Directory) Names(kind catalog.MediaKind) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	mapping := d.snap.kindMap(kind)
	if len(mapping) == 0 {
		return nil
	}
	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ready reports whether a non-empty snapshot has been published.
func (d *Directory) Ready() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap != nil && (len(d.snap.Movie) > 0 || len(d.snap.TV) > 0)
}

// Current returns the published snapshot, or nil before the first refresh.
func (d *Directory) Current() *Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap
}
