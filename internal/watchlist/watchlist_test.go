package watchlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"baggedflix/internal/media"
)

func item(id, name string) media.Item {
	return media.Item{ID: id, Type: media.Movie, Name: name}
}

func TestAddRemoveContains(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "watchlist.json"), zerolog.Nop())

	if err := s.Add(item("tt1", "First")); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if !s.Contains("tt1") {
		t.Error("Contains(tt1) = false after Add")
	}
	if s.Contains("tt2") {
		t.Error("Contains(tt2) = true, never added")
	}

	// Duplicate add keeps the original snapshot.
	if err := s.Add(item("tt1", "Renamed")); err != nil {
		t.Fatalf("duplicate Add() error: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d after duplicate add, want 1", s.Len())
	}
	if got := s.Items()[0].Name; got != "First" {
		t.Errorf("snapshot replaced on duplicate add: %q", got)
	}

	if err := s.Remove("tt1"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if s.Contains("tt1") {
		t.Error("Contains(tt1) = true after Remove")
	}
	if err := s.Remove("tt1"); err != nil {
		t.Errorf("Remove() on absent id: %v", err)
	}
}

func TestItemsInsertionOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	s := Open(path, zerolog.Nop())

	ids := []string{"tt3", "tt1", "tt2"}
	for _, id := range ids {
		if err := s.Add(item(id, id)); err != nil {
			t.Fatalf("Add(%s) error: %v", id, err)
		}
	}

	check := func(s *Store) {
		t.Helper()
		items := s.Items()
		if len(items) != len(ids) {
			t.Fatalf("len(Items) = %d, want %d", len(items), len(ids))
		}
		for i, id := range ids {
			if items[i].ID != id {
				t.Errorf("items[%d].ID = %q, want %q (insertion order lost)", i, items[i].ID, id)
			}
		}
	}

	check(s)
	check(Open(path, zerolog.Nop())) // order survives persistence
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	s := Open(path, zerolog.Nop())

	full := media.Item{
		ID:         "tt0903747",
		Type:       media.Series,
		Name:       "Breaking Bad",
		Poster:     "https://example.com/p.jpg",
		Year:       "2008",
		IMDBRating: "9.5",
		IMDBID:     "tt0903747",
		Genres:     []string{"Crime", "Drama"},
	}
	if err := s.Add(full); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	got := Open(path, zerolog.Nop()).Items()[0]
	if got.ID != full.ID || got.Type != full.Type || got.Name != full.Name ||
		got.Year != full.Year || got.IMDBRating != full.IMDBRating || got.IMDBID != full.IMDBID {
		t.Errorf("snapshot round trip lost fields:\n  want %+v\n  got  %+v", full, got)
	}
	if len(got.Genres) != 2 || got.Genres[0] != "Crime" {
		t.Errorf("Genres = %v", got.Genres)
	}
}

func TestOpenMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	s := Open(filepath.Join(dir, "nonexistent.json"), zerolog.Nop())
	if s.Len() != 0 {
		t.Errorf("missing file: Len = %d, want 0", s.Len())
	}

	path := filepath.Join(dir, "corrupt.json")
	os.WriteFile(path, []byte("[{broken"), 0600)
	s = Open(path, zerolog.Nop())
	if s.Len() != 0 {
		t.Errorf("corrupt file: Len = %d, want 0", s.Len())
	}
	if err := s.Add(item("tt1", "First")); err != nil {
		t.Errorf("store unusable after corrupt load: %v", err)
	}
}
