package genres

import (
	"testing"
	"time"

	"reelchat/internal/catalog"
)

func TestDirectoryLookupCaseInsensitive(t *testing.T) {
	directory := NewDirectory()
	directory.Replace(NewSnapshot(
		[]catalog.Genre{{ID: 27, Name: "Horror"}, {ID: 35, Name: "Comedy"}},
		[]catalog.Genre{{ID: 18, Name: "Drama"}},
		time.Now(),
	))

	id, ok := directory.Lookup(catalog.MediaKindMovie, " HORROR ")
	if !ok || id != 27 {
		t.Fatalf("Lookup(horror) = %d, %v", id, ok)
	}
	if _, ok := directory.Lookup(catalog.MediaKindMovie, "drama"); ok {
		t.Fatal("drama belongs to the tv taxonomy only in this snapshot")
	}
	if _, ok := directory.Lookup(catalog.MediaKindTV, "drama"); !ok {
		t.Fatal("expected drama in tv taxonomy")
	}
}

func TestDirectoryEmptyBeforeFirstSnapshot(t *testing.T) {
	directory := NewDirectory()
	if directory.Ready() {
		t.Fatal("directory must not be ready before a snapshot is published")
	}
	if _, ok := directory.Lookup(catalog.MediaKindMovie, "horror"); ok {
		t.Fatal("lookup on empty directory must miss")
	}
	if names := directory.Names(catalog.MediaKindTV); names != nil {
		t.Fatalf("expected nil names, got %v", names)
	}
}

func TestDirectoryNamesSorted(t *testing.T) {
	directory := NewDirectory()
	directory.Replace(NewSnapshot(
		[]catalog.Genre{{ID: 53, Name: "Thriller"}, {ID: 28, Name: "Action"}, {ID: 27, Name: "Horror"}},
		nil,
		time.Now(),
	))
	names := directory.Names(catalog.MediaKindMovie)
	want := []string{"action", "horror", "thriller"}
	if len(names) != len(want) {
		t.Fatalf("unexpected names %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected sorted names %v, got %v", want, names)
		}
	}
}

func TestReplaceIgnoresNil(t *testing.T) {
	directory := NewDirectory()
	directory.Replace(NewSnapshot([]catalog.Genre{{ID: 27, Name: "Horror"}}, nil, time.Now()))
	directory.Replace(nil)
	if !directory.Ready() {
		t.Fatal("nil replace must not clear the directory")
	}
}
