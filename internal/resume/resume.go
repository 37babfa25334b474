// Package resume derives "where should playback continue" from catalog
// metadata and a watch-history snapshot. Resolve is deterministic and
// side-effect free.
package resume

import (
	"fmt"

	"baggedflix/internal/media"
)

// Reference durations used for the completion estimate when the history
// entry carries no recorded duration. Display-only figures.
const (
	movieRefDuration   = 7200.0 // 2h
	episodeRefDuration = 1500.0 // 25m
)

// Decision is the derived resume target.
type Decision struct {
	Label    string  // "Watch Now", "Resume", "Resume S1:E2"
	Route    string  // target route, original app convention
	Season   int     // series only; 0 for movies
	Episode  int     // series only; 0 for movies
	Position float64 // start offset in seconds
	Fraction float64 // completion estimate in [0, 1]
}

// Lookup reads one history entry by content key. history.Store.Entry
// satisfies it.
type Lookup func(key string) (media.HistoryEntry, bool)

// Resolve derives the resume decision for an item.
//
// A movie resumes when its entry has position > 0. A series resumes at the
// episode with the highest (season, episode) pair among those with
// position > 0 — content order, not wall-clock order, so scrubbing through an
// early episode after finishing a later one does not move the resume point
// backward. With no matching history the decision is "Watch Now" at the
// default target.
func Resolve(item media.Item, lookup Lookup) Decision {
	if item.Type == media.Movie {
		if e, ok := lookup(media.ProgressKey(item.ID)); ok && e.Position > 0 {
			return Decision{
				Label:    "Resume",
				Route:    fmt.Sprintf("/watch/movie/%s", item.ID),
				Position: e.Position,
				Fraction: fraction(e.Position, e.Duration, movieRefDuration),
			}
		}
		return Decision{
			Label: "Watch Now",
			Route: fmt.Sprintf("/watch/movie/%s", item.ID),
		}
	}

	var (
		best      media.HistoryEntry
		bestIndex = -1
	)
	for _, v := range item.Videos {
		e, ok := lookup(media.EpisodeProgressKey(item.ID, v.Season, v.Episode))
		if !ok || e.Position <= 0 {
			continue
		}
		index := v.Season*10000 + v.Episode
		if index > bestIndex {
			bestIndex = index
			best = e
			best.Season = v.Season
			best.Episode = v.Episode
		}
	}

	if bestIndex >= 0 {
		return Decision{
			Label:    fmt.Sprintf("Resume S%d:E%d", best.Season, best.Episode),
			Route:    fmt.Sprintf("/watch/series/%s?season=%d&episode=%d", item.ID, best.Season, best.Episode),
			Season:   best.Season,
			Episode:  best.Episode,
			Position: best.Position,
			Fraction: fraction(best.Position, best.Duration, episodeRefDuration),
		}
	}

	d := Decision{
		Label: "Watch Now",
		Route: fmt.Sprintf("/watch/series/%s", item.ID),
	}
	if len(item.Videos) > 0 {
		d.Season = item.Videos[0].Season
		d.Episode = item.Videos[0].Episode
	}
	return d
}

// fraction estimates completion, clamped to 1, falling back to the reference
// duration when none was recorded.
func fraction(position, duration, ref float64) float64 {
	if duration <= 0 {
		duration = ref
	}
	f := position / duration
	if f > 1 {
		return 1
	}
	return f
}
