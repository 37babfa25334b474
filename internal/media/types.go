// Package media defines shared types for the baggedflix application.
package media

import "fmt"

// ContentType represents whether content is a movie or a series.
type ContentType int

const (
	Movie ContentType = iota
	Series
)

func (c ContentType) String() string {
	switch c {
	case Movie:
		return "movie"
	case Series:
		return "series"
	default:
		return "unknown"
	}
}

// ParseContentType maps user-facing spellings onto a ContentType.
// Unrecognized input defaults to Movie, matching the catalog's default tab.
func ParseContentType(s string) ContentType {
	switch s {
	case "series", "tv", "shows", "show":
		return Series
	default:
		return Movie
	}
}

// Item is one browsable movie or series record from the catalog provider.
// Immutable once fetched.
type Item struct {
	ID          string      // Provider content ID (e.g., "tt0111161")
	Type        ContentType // Movie or Series
	Name        string      // Display title
	Poster      string      // Poster artwork URL
	Background  string      // Backdrop artwork URL
	Logo        string      // Logo artwork URL
	Description string      // Synopsis
	Year        string      // Release year or range
	Runtime     string      // Human-readable runtime
	IMDBRating  string      // Rating as reported by the provider
	IMDBID      string      // IMDB identifier, used for caption lookup
	Genres      []string
	Videos      []Episode // Episode list, series details only
}

// Episode belongs to exactly one Item. Progress identity is the composite
// (item ID, season, episode); the episode's own provider ID is not guaranteed
// stable or present.
type Episode struct {
	Season    int
	Episode   int
	Title     string
	Aired     string // Release date as reported by the provider
	Overview  string
	Thumbnail string
}

// HistoryEntry is a persisted playback-progress record.
type HistoryEntry struct {
	ID            string  `json:"id"`       // Progress key (see ProgressKey)
	MetaID        string  `json:"metaId"`   // Catalog item ID
	Type          string  `json:"type"`     // movie | series
	Title         string  `json:"title"`
	Poster        string  `json:"poster"`
	Season        int     `json:"season,omitempty"`
	Episode       int     `json:"episode,omitempty"`
	Position      float64 `json:"timestamp"`          // Last playback position in seconds
	Duration      float64 `json:"duration,omitempty"` // Known total duration in seconds
	LastWatchedAt int64   `json:"lastWatchedAt"`      // Epoch millis
}

// ProgressKey returns the history key for a movie.
func ProgressKey(itemID string) string {
	return itemID
}

// EpisodeProgressKey returns the history key for one episode of a series.
func EpisodeProgressKey(itemID string, season, episode int) string {
	return fmt.Sprintf("%s-s%d-e%d", itemID, season, episode)
}
