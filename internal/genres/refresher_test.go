package genres

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reelchat/internal/catalog"
)

type fakeLister struct {
	movie    []catalog.Genre
	tv       []catalog.Genre
	movieErr error
	tvErr    error
	calls    int
}

func (f *fakeLister) GenreList(_ context.Context, kind catalog.MediaKind) ([]catalog.Genre, error) {
	f.calls++
	if kind == catalog.MediaKindMovie {
		return f.movie, f.movieErr
	}
	return f.tv, f.tvErr
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	directory := NewDirectory()
	lister := &fakeLister{
		movie: []catalog.Genre{{ID: 27, Name: "Horror"}},
		tv:    []catalog.Genre{{ID: 18, Name: "Drama"}},
	}
	refresher := NewRefresher(directory, lister, time.Hour, nil)

	if err := refresher.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if id, ok := directory.Lookup(catalog.MediaKindMovie, "horror"); !ok || id != 27 {
		t.Fatalf("expected refreshed snapshot, got %d %v", id, ok)
	}
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	directory := NewDirectory()
	lister := &fakeLister{
		movie: []catalog.Genre{{ID: 27, Name: "Horror"}},
		tv:    []catalog.Genre{{ID: 18, Name: "Drama"}},
	}
	refresher := NewRefresher(directory, lister, time.Hour, nil)
	if err := refresher.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	lister.tvErr = errors.New("catalog down")
	lister.movie = nil
	if err := refresher.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if id, ok := directory.Lookup(catalog.MediaKindMovie, "horror"); !ok || id != 27 {
		t.Fatalf("previous snapshot must survive a failed refresh, got %d %v", id, ok)
	}
}

func TestRefreshPersistsAndWarmStarts(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "genres.json")
	directory := NewDirectory()
	lister := &fakeLister{
		movie: []catalog.Genre{{ID: 35, Name: "Comedy"}},
		tv:    []catalog.Genre{{ID: 16, Name: "Animation"}},
	}
	refresher := NewRefresher(directory, lister, time.Hour, nil, WithStatePath(statePath))
	if err := refresher.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if _, err := os.Stat(statePath); err != nil {
		t.Fatalf("expected persisted snapshot: %v", err)
	}

	// A new process with an unreachable catalog still serves the snapshot.
	restarted := NewDirectory()
	NewRefresher(restarted, &fakeLister{movieErr: errors.New("down"), tvErr: errors.New("down")}, time.Hour, nil, WithStatePath(statePath))
	if id, ok := restarted.Lookup(catalog.MediaKindTV, "animation"); !ok || id != 16 {
		t.Fatalf("expected warm-start snapshot, got %d %v", id, ok)
	}
}

func TestWarmStartToleratesCorruptFile(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "genres.json")
	if err := os.WriteFile(statePath, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write corrupt state: %v", err)
	}
	directory := NewDirectory()
	NewRefresher(directory, &fakeLister{}, time.Hour, nil, WithStatePath(statePath))
	if directory.Ready() {
		t.Fatal("corrupt state must leave the directory empty")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	directory := NewDirectory()
	lister := &fakeLister{movie: []catalog.Genre{{ID: 1, Name: "A"}}}
	refresher := NewRefresher(directory, lister, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		refresher.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
