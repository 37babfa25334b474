package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"baggedflix/internal/catalog"
	"baggedflix/internal/history"
	"baggedflix/internal/media"
	"baggedflix/internal/playback"
	"baggedflix/internal/resume"
	"baggedflix/internal/stream"
	"baggedflix/internal/subtitle"
	"baggedflix/internal/ui"
)

// playItem handles the full details -> resume -> resolve -> play flow for a
// selected catalog item.
func playItem(ctx context.Context, cat *catalog.Client, item *media.Item) error {
	details := cat.FetchDetails(ctx, item.Type, item.ID)
	if details == nil {
		fmt.Println("Title not found.")
		return nil
	}

	hist, err := openHistory()
	if err != nil {
		return err
	}

	lookup := resume.Lookup(hist.Entry)
	if !cfg.History {
		lookup = func(string) (media.HistoryEntry, bool) { return media.HistoryEntry{}, false }
	}
	decision := resume.Resolve(*details, lookup)
	logger.Debug().Str("label", decision.Label).Str("route", decision.Route).Msg("resume decision")

	season, episode := decision.Season, decision.Episode
	startPos := decision.Position

	// Let the user override the derived target.
	options := []string{decision.Label}
	if details.Type == media.Series {
		options = append(options, "Choose episode")
	} else if startPos > 0 {
		options = append(options, "Start over")
	}

	if len(options) > 1 {
		idx, err := ui.Select(details.Name, options)
		if err != nil {
			if err == ui.ErrCancelled {
				return nil
			}
			return err
		}
		if idx == 1 {
			if details.Type == media.Series {
				season, episode, err = chooseEpisode(details)
				if err != nil {
					if err == ui.ErrCancelled {
						return nil
					}
					return err
				}
				startPos = 0
				if e, ok := lookup(media.EpisodeProgressKey(details.ID, season, episode)); ok {
					startPos = e.Position
				}
			} else {
				startPos = 0
			}
		}
	}

	return playContent(ctx, hist, details, season, episode, startPos)
}

// chooseEpisode walks the season/episode pickers.
func chooseEpisode(details *media.Item) (int, int, error) {
	seasons := []int{}
	seen := map[int]bool{}
	for _, v := range details.Videos {
		if !seen[v.Season] {
			seen[v.Season] = true
			seasons = append(seasons, v.Season)
		}
	}
	if len(seasons) == 0 {
		return 0, 0, fmt.Errorf("no episodes listed")
	}

	seasonIdx := 0
	if len(seasons) > 1 {
		items := make([]string, len(seasons))
		for i, s := range seasons {
			items[i] = fmt.Sprintf("Season %d", s)
		}
		var err error
		seasonIdx, err = ui.Select("Season", items)
		if err != nil {
			return 0, 0, err
		}
	}
	season := seasons[seasonIdx]

	var episodes []media.Episode
	for _, v := range details.Videos {
		if v.Season == season {
			episodes = append(episodes, v)
		}
	}

	items := make([]string, len(episodes))
	for i, ep := range episodes {
		if ep.Title != "" {
			items[i] = fmt.Sprintf("Episode %d: %s", ep.Episode, ep.Title)
		} else {
			items[i] = fmt.Sprintf("Episode %d", ep.Episode)
		}
	}
	episodeIdx, err := ui.Select("Episode", items)
	if err != nil {
		return 0, 0, err
	}

	return season, episodes[episodeIdx].Episode, nil
}

// playContent resolves the stream for one concrete target and plays it,
// persisting playback positions as they are observed.
func playContent(ctx context.Context, hist *history.Store, details *media.Item, season, episode int, startPos float64) error {
	title := details.Name
	key := media.ProgressKey(details.ID)
	if details.Type == media.Series {
		title = fmt.Sprintf("%s S%02dE%02d", details.Name, season, episode)
		key = media.EpisodeProgressKey(details.ID, season, episode)
	}

	streamID := details.IMDBID
	if streamID == "" {
		streamID = details.ID
	}

	resolver := stream.NewResolver(cfg.StreamBase, logger)
	src := resolver.Resolve(ctx, streamID, details.Type, season, episode)
	if src == nil {
		fmt.Println("Stream not available.")
		return nil
	}

	// JSON output mode
	if flagJSON {
		out := map[string]interface{}{"title": title}
		if src.Direct() {
			out["url"] = src.URL
		} else {
			out["playlist"] = src.Playlist
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	// Handle subtitles
	var subFile string
	if !flagNoSubs {
		subs := subtitle.New(cfg.SubsBase, logger)
		if cap := subs.Find(ctx, details.IMDBID, details.Type, season, episode, cfg.SubsLanguage); cap != nil {
			tmpDir, err := subtitle.NewTempDir()
			if err == nil {
				defer tmpDir.Cleanup()
				subFile, err = tmpDir.Download(ctx, cap)
				if err != nil {
					logger.Debug().Err(err).Msg("subtitle download failed, continuing without")
					subFile = ""
				}
			}
		}
	}

	session := playback.New(cfg.Player, logger)
	if !session.Available() {
		return fmt.Errorf("player %q not found in PATH", cfg.Player)
	}

	meta := &history.EntryMeta{
		MetaID:  details.ID,
		Type:    details.Type.String(),
		Title:   details.Name,
		Poster:  details.Poster,
		Season:  season,
		Episode: episode,
	}

	opts := playback.Options{
		Title:    title,
		StartPos: startPos,
		SubFile:  subFile,
	}
	if cfg.History {
		opts.OnPosition = func(pos float64) {
			if err := hist.UpdateProgress(key, pos, meta); err != nil {
				logger.Warn().Err(err).Msg("saving progress failed")
			}
		}
	}

	lastPos, err := session.Play(ctx, src, opts)
	if err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}

	if cfg.History && lastPos > 0 {
		if err := hist.UpdateProgress(key, lastPos, meta); err != nil {
			logger.Warn().Err(err).Msg("saving final position failed")
		}
	}

	return nil
}
