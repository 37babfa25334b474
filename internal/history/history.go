// Package history manages the durable watch-history document: a map from
// content key to last-known playback position and display metadata.
//
// The document is a self-describing JSON object persisted with atomic writes
// (temp+rename) to prevent corruption. A missing or corrupt document is
// treated as an empty store rather than a startup failure; unknown fields in
// entries are ignored for forward compatibility.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"baggedflix/internal/media"
)

// EntryMeta carries the display metadata a writer knows about the content it
// is reporting progress for. Zero-valued fields leave the stored values
// untouched; the merge is field-by-field, not replace-whole-record.
type EntryMeta struct {
	MetaID   string
	Type     string
	Title    string
	Poster   string
	Season   int
	Episode  int
	Duration float64
}

// Store is the process-wide watch-history store. Writes are serialized
// internally; every mutation persists synchronously before returning.
type Store struct {
	mu      sync.Mutex
	path    string
	entries map[string]media.HistoryEntry
	log     zerolog.Logger
	now     func() int64 // epoch millis, swappable in tests
}

// Open creates the store backed by the document at path, rehydrating any
// existing state. It never fails: an unreadable or malformed document is
// logged and treated as empty.
func Open(path string, log zerolog.Logger) *Store {
	s := &Store{
		path:    path,
		entries: make(map[string]media.HistoryEntry),
		log:     log,
		now:     func() int64 { return time.Now().UnixMilli() },
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("history unreadable, starting empty")
		}
		return s
	}

	var entries map[string]media.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("history corrupt, starting empty")
		return s
	}
	if entries != nil {
		s.entries = entries
	}
	return s
}

// UpdateProgress upserts the entry for key. Position and last-watched
// timestamp are always overwritten with the new values; a lower position than
// previously recorded is accepted, since the user may have scrubbed backward.
// Metadata merges field-by-field over any existing entry.
//
// The returned error reports persistence failure only; the in-memory entry is
// updated regardless, so the store stays usable for the session.
func (s *Store) UpdateProgress(key string, seconds float64, meta *EntryMeta) error {
	if seconds < 0 {
		seconds = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[key]
	e.ID = key
	e.Position = seconds
	e.LastWatchedAt = s.now()

	if meta != nil {
		if meta.MetaID != "" {
			e.MetaID = meta.MetaID
		}
		if meta.Type != "" {
			e.Type = meta.Type
		}
		if meta.Title != "" {
			e.Title = meta.Title
		}
		if meta.Poster != "" {
			e.Poster = meta.Poster
		}
		if meta.Season != 0 {
			e.Season = meta.Season
		}
		if meta.Episode != 0 {
			e.Episode = meta.Episode
		}
		if meta.Duration != 0 {
			e.Duration = meta.Duration
		}
	}

	s.entries[key] = e
	return s.persistLocked()
}

// Progress returns the last playback position for key, or 0 when no entry
// exists. Use Entry when "never watched" must be distinguished from
// "explicitly at the start".
func (s *Store) Progress(key string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key].Position
}

// Entry returns the stored entry for key and whether it exists.
func (s *Store) Entry(key string) (media.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e, ok
}

// Remove deletes the entry for key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	return s.persistLocked()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a snapshot sorted by last-watched time, most recent first.
func (s *Store) Entries() []media.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]media.HistoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastWatchedAt != out[j].LastWatchedAt {
			return out[i].LastWatchedAt > out[j].LastWatchedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Export serializes the full history map. The result round-trips losslessly
// through ImportMerge.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}
	return data, nil
}

// ImportMerge merges an exported document into the store. Every incoming key
// overwrites the local entry wholesale; local-only keys are left untouched,
// so the merge is strictly additive/overwriting and idempotent. A malformed
// document is rejected without applying anything. Returns the number of
// entries merged.
func (s *Store) ImportMerge(doc []byte) (int, error) {
	var incoming map[string]media.HistoryEntry
	if err := json.Unmarshal(doc, &incoming); err != nil {
		return 0, fmt.Errorf("parsing history document: %w", err)
	}
	if incoming == nil {
		return 0, fmt.Errorf("history document is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range incoming {
		e.ID = key
		s.entries[key] = e
	}

	if err := s.persistLocked(); err != nil {
		return len(incoming), err
	}
	return len(incoming), nil
}

// persistLocked writes the document atomically: temp file in the target
// directory, then rename. Caller must hold s.mu.
func (s *Store) persistLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "history-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming history file: %w", err)
	}
	return nil
}
