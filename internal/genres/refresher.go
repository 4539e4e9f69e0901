package genres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"reelchat/internal/catalog"
	"reelchat/internal/logging"
)

// Lister is the catalog subset the refresher needs.
type Lister interface {
	GenreList(ctx context.Context, kind catalog.MediaKind) ([]catalog.Genre, error)
}

// Refresher periodically rebuilds the directory from the catalog. It also
// persists the last good snapshot so a catalog outage at startup does not
// leave the directory empty.
type Refresher struct {
	directory *Directory
	client    Lister
	interval  time.Duration
	statePath string
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithStatePath enables snapshot persistence at the given file path.
func WithStatePath(path string) Option {
	return func(r *Refresher) {
		r.statePath = path
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(r *Refresher) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRefresher creates a refresher for the given directory. A warm-start
// snapshot is loaded from the state path when one exists.
func NewRefresher(directory *Directory, client Lister, interval time.Duration, logger *slog.Logger, opts ...Option) *Refresher {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	r := &Refresher{
		directory: directory,
		client:    client,
		interval:  interval,
		logger:    logging.NewComponentLogger(logger, "genres"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.statePath != "" {
		if err := r.loadState(); err != nil {
			r.logger.Warn("failed to load genre snapshot",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "directory starts empty until the first refresh"))
		}
	}
	return r
}

// Refresh fetches both taxonomies and atomically replaces the directory
// snapshot on success. On any failure the existing snapshot is left
// untouched.
func (r *Refresher) Refresh(ctx context.Context) error {
	movie, err := r.client.GenreList(ctx, catalog.MediaKindMovie)
	if err != nil {
		return fmt.Errorf("fetch movie taxonomy: %w", err)
	}
	tv, err := r.client.GenreList(ctx, catalog.MediaKindTV)
	if err != nil {
		return fmt.Errorf("fetch tv taxonomy: %w", err)
	}

	snap := NewSnapshot(movie, tv, r.now().UTC())
	r.directory.Replace(snap)
	r.logger.Info("genre directory refreshed",
		logging.Int("movie_genres", len(snap.Movie)),
		logging.Int("tv_genres", len(snap.TV)))

	if r.statePath != "" {
		if err := r.saveState(snap); err != nil {
			r.logger.Warn("failed to persist genre snapshot", logging.Error(err))
		}
	}
	return nil
}

// Run refreshes immediately and then on the configured interval until the
// context is cancelled. Refresh failures are logged and the loop keeps going;
// the previous snapshot stays queryable throughout.
func (r *Refresher) Run(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil {
		r.logger.Warn("initial genre refresh failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "genre filters unavailable until the next refresh"))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logger.Warn("scheduled genre refresh failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "serving the previous snapshot"))
			}
		}
	}
}

func (r *Refresher) loadState() error {
	data, err := os.ReadFile(r.statePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read snapshot file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot file: %w", err)
	}
	if len(snap.Movie) == 0 && len(snap.TV) == 0 {
		return nil
	}
	r.directory.Replace(&snap)
	r.logger.Debug("loaded genre snapshot",
		logging.Int("movie_genres", len(snap.Movie)),
		logging.Int("tv_genres", len(snap.TV)),
		logging.String("path", r.statePath))
	return nil
}

// saveState writes the snapshot to disk atomically.
func (r *Refresher) saveState(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.statePath), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	tmpPath := r.statePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.statePath); err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
