// Package subtitle looks up captions from the OpenSubtitles REST endpoint
// and manages secure temp file downloads for handing a caption to the player.
//
// Lookup failures are absorbed here: a provider error or an empty candidate
// list yields an absent caption, never an error to the playback flow.
package subtitle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"baggedflix/internal/httputil"
	"baggedflix/internal/media"
)

// Caption is the selected best-match caption resource.
type Caption struct {
	URL      string // direct download link, format-correct (not gzipped)
	Format   string // srt, vtt, ...
	Language string
	FileName string
}

// candidate mirrors one search result from the caption provider. Fields are
// strings on the wire except the numeric score.
type candidate struct {
	SubDownloadLink string  `json:"SubDownloadLink"`
	SubFormat       string  `json:"SubFormat"`
	SubFileName     string  `json:"SubFileName"`
	LanguageName    string  `json:"LanguageName"`
	Score           float64 `json:"Score"`
}

// Client queries the caption provider.
type Client struct {
	base   string // provider host
	client *http.Client
	log    zerolog.Logger
}

// New creates a caption client for the given provider host.
func New(base string, log zerolog.Logger) *Client {
	return &Client{base: base, client: httputil.NewClient(), log: log}
}

// Find returns the best-match caption for the content, or nil when none is
// available. The best match is the candidate with the highest numeric score;
// ties keep the first seen. A series lookup without season and episode
// resolves to absent.
func (c *Client) Find(ctx context.Context, imdbID string, contentType media.ContentType, season, episode int, lang string) *Caption {
	if imdbID == "" {
		return nil
	}
	if contentType == media.Series && (season == 0 || episode == 0) {
		return nil
	}

	id := strings.TrimPrefix(imdbID, "tt")

	var u string
	if contentType == media.Series {
		u = fmt.Sprintf("https://%s/search/episode-%d/imdbid-%s/season-%d/sublanguageid-%s",
			c.base, episode, id, season, lang)
	} else {
		u = fmt.Sprintf("https://%s/search/imdbid-%s/sublanguageid-%s", c.base, id, lang)
	}

	body, err := httputil.GetJSON(ctx, c.client, u)
	if err != nil {
		c.log.Warn().Err(err).Str("imdb", imdbID).Msg("caption lookup failed")
		return nil
	}

	var candidates []candidate
	if err := json.Unmarshal(body, &candidates); err != nil {
		c.log.Warn().Err(err).Str("imdb", imdbID).Msg("caption response malformed")
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.Score > best.Score {
			best = cand
		}
	}
	if best.SubDownloadLink == "" {
		return nil
	}

	// The provider serves gzipped files; the link rewritten to the subtitle
	// format serves the plain file.
	link := best.SubDownloadLink
	if strings.HasSuffix(link, ".gz") && best.SubFormat != "" {
		link = strings.TrimSuffix(link, ".gz") + "." + best.SubFormat
	}

	return &Caption{
		URL:      link,
		Format:   best.SubFormat,
		Language: best.LanguageName,
		FileName: best.SubFileName,
	}
}

// TempDir manages a randomized temporary directory for downloaded captions.
type TempDir struct {
	path string
}

// NewTempDir creates a randomized temporary directory for caption files.
func NewTempDir() (*TempDir, error) {
	dir, err := os.MkdirTemp("", "baggedflix-subs-*")
	if err != nil {
		return nil, fmt.Errorf("creating caption temp dir: %w", err)
	}
	return &TempDir{path: dir}, nil
}

// Cleanup removes the temporary directory and all contents.
func (t *TempDir) Cleanup() {
	if t.path != "" {
		os.RemoveAll(t.path)
	}
}

// Download fetches the caption into the temp directory and returns the local
// path for handing to the player.
func (t *TempDir) Download(ctx context.Context, cap *Caption) (string, error) {
	if err := httputil.ValidateURL(cap.URL); err != nil {
		return "", fmt.Errorf("invalid caption URL: %w", err)
	}

	filename := "subtitle." + cap.Format
	if cap.FileName != "" {
		filename = httputil.SanitizeFilename(cap.FileName)
	}
	localPath := filepath.Join(t.path, filename)

	client := httputil.NewClient()
	resp, err := httputil.Get(ctx, client, cap.URL, "")
	if err != nil {
		return "", fmt.Errorf("downloading caption: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("creating caption file: %w", err)
	}
	defer f.Close()

	// Limit caption file size to 10MB
	if _, err := io.Copy(f, io.LimitReader(resp.Body, 10*1024*1024)); err != nil {
		return "", fmt.Errorf("writing caption file: %w", err)
	}

	return localPath, nil
}
