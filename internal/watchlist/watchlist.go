// Package watchlist manages the durable watchlist document: an
// insertion-ordered list of saved catalog item snapshots, unique by id.
//
// Snapshots are taken at add time and never refreshed from the catalog.
// Persistence follows the same contract as the history store: atomic writes,
// and a missing or corrupt document loads as empty.
package watchlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"baggedflix/internal/media"
)

// Entry is one saved item snapshot as persisted.
type Entry struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Poster      string   `json:"poster,omitempty"`
	Background  string   `json:"background,omitempty"`
	Description string   `json:"description,omitempty"`
	Year        string   `json:"year,omitempty"`
	IMDBRating  string   `json:"imdbRating,omitempty"`
	IMDBID      string   `json:"imdb_id,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

func snapshot(item media.Item) Entry {
	return Entry{
		ID:          item.ID,
		Type:        item.Type.String(),
		Name:        item.Name,
		Poster:      item.Poster,
		Background:  item.Background,
		Description: item.Description,
		Year:        item.Year,
		IMDBRating:  item.IMDBRating,
		IMDBID:      item.IMDBID,
		Genres:      item.Genres,
	}
}

// Item converts a stored snapshot back into a catalog item.
func (e Entry) Item() media.Item {
	return media.Item{
		ID:          e.ID,
		Type:        media.ParseContentType(e.Type),
		Name:        e.Name,
		Poster:      e.Poster,
		Background:  e.Background,
		Description: e.Description,
		Year:        e.Year,
		IMDBRating:  e.IMDBRating,
		IMDBID:      e.IMDBID,
		Genres:      e.Genres,
	}
}

// Store is the process-wide watchlist store.
type Store struct {
	mu      sync.Mutex
	path    string
	entries []Entry
	log     zerolog.Logger
}

// Open creates the store backed by the document at path. An unreadable or
// malformed document is logged and treated as empty.
func Open(path string, log zerolog.Logger) *Store {
	s := &Store{path: path, log: log}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("watchlist unreadable, starting empty")
		}
		return s
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("watchlist corrupt, starting empty")
		return s
	}
	s.entries = entries
	return s
}

// Add saves a snapshot of the item. Adding an id that is already saved is a
// no-op; the existing snapshot is kept as-is.
func (s *Store) Add(item media.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == item.ID {
			return nil
		}
	}
	s.entries = append(s.entries, snapshot(item))
	return s.persistLocked()
}

// Remove deletes the entry with the given id. Removing an absent id is a
// no-op.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return s.persistLocked()
		}
	}
	return nil
}

// Contains reports whether an entry with the given id is saved.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Items returns the saved snapshots in insertion order.
func (s *Store) Items() []media.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]media.Item, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Item())
	}
	return out
}

// Len returns the number of saved entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// persistLocked writes the document atomically. Caller must hold s.mu.
func (s *Store) persistLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating watchlist dir: %w", err)
	}

	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding watchlist: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "watchlist-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing watchlist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming watchlist file: %w", err)
	}
	return nil
}
