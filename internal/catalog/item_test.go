package catalog

import "testing"

func TestItemTitleFallsBackToName(t *testing.T) {
	movie := Item{"title": "Alien"}
	series := Item{"name": "Severance"}
	if movie.Title() != "Alien" {
		t.Fatalf("unexpected movie title %q", movie.Title())
	}
	if series.Title() != "Severance" {
		t.Fatalf("unexpected series title %q", series.Title())
	}
}

func TestItemReleaseDateFallsBackToFirstAirDate(t *testing.T) {
	series := Item{"first_air_date": "2022-02-18"}
	if series.ReleaseDate() != "2022-02-18" {
		t.Fatalf("unexpected release date %q", series.ReleaseDate())
	}
}

func TestItemNumericAccessorsTolerateMissingKeys(t *testing.T) {
	var empty Item
	if empty.ID() != 0 || empty.VoteCount() != 0 || empty.Popularity() != 0 {
		t.Fatal("missing keys must read as zero")
	}
	if empty.Title() != "" || empty.MediaType() != "" {
		t.Fatal("missing keys must read as empty strings")
	}
}

func TestStampMediaTypeOverwrites(t *testing.T) {
	item := Item{"media_type": "person"}
	item.StampMediaType(MediaKindTV)
	if item.MediaType() != "tv" {
		t.Fatalf("expected stamped kind tv, got %q", item.MediaType())
	}
}
