// Package stream resolves a catalog item into a playable source by walking
// the embed host's iframe chain.
//
// Resolution is a collaborator of the playback flow: any failed step yields
// an absent result (nil), which the UI renders as "stream not available".
// Errors never propagate out of this package.
package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"baggedflix/internal/httputil"
	"baggedflix/internal/media"
)

// Source is a resolved playable source: either a direct media URL or raw
// playlist text that the playback bridge materializes for the player.
type Source struct {
	URL      string // direct media URL; empty when Playlist is set
	Playlist string // raw multi-line playlist text
}

// Direct reports whether the source is a plain URL.
func (s *Source) Direct() bool { return s.Playlist == "" }

var (
	prorcpPattern   = regexp.MustCompile(`src\s*:\s*['"](/prorcp/[A-Za-z0-9+/=-]+)['"]`)
	fallbackPattern = regexp.MustCompile(`https://(?:tmstr1|tmstr2)\.\{v\d+\}/(?:pl|cdnstr)/[A-Za-z0-9._\-]+/(?:master\.m3u8|list\.m3u8)`)
)

// Resolver walks the embed chain for one embed host.
type Resolver struct {
	base   string // embed host
	client *http.Client
	log    zerolog.Logger
}

// NewResolver creates a resolver for the given embed host.
func NewResolver(base string, log zerolog.Logger) *Resolver {
	return &Resolver{base: base, client: httputil.NewClient(), log: log}
}

// Resolve returns the playable source for the content, or nil when no stream
// is available. Series resolution requires season and episode.
func (r *Resolver) Resolve(ctx context.Context, id string, contentType media.ContentType, season, episode int) *Source {
	if err := httputil.ValidateID(id); err != nil {
		r.log.Warn().Err(err).Msg("invalid content id")
		return nil
	}

	var embedURL string
	if contentType == media.Series {
		if season == 0 || episode == 0 {
			return nil
		}
		embedURL = fmt.Sprintf("https://%s/embed/tv/%s/%d-%d", r.base, id, season, episode)
	} else {
		embedURL = fmt.Sprintf("https://%s/embed/movie/%s", r.base, id)
	}

	// First request: the embed page carries the player iframe.
	iframeURL, ok := r.playerIframe(ctx, embedURL)
	if !ok {
		return nil
	}

	// Second request: the iframe body names the /prorcp/ path.
	rcpURL, ok := r.prorcpLink(ctx, iframeURL, embedURL)
	if !ok {
		return nil
	}

	// Third request: the rcp page hides the playlist link.
	link, ok := r.playlistLink(ctx, rcpURL)
	if !ok {
		return nil
	}

	return r.fetchSource(ctx, link)
}

// playerIframe extracts the #player_iframe src from the embed page.
func (r *Resolver) playerIframe(ctx context.Context, embedURL string) (string, bool) {
	resp, err := httputil.Get(ctx, r.client, embedURL, "")
	if err != nil {
		r.log.Warn().Err(err).Str("url", embedURL).Msg("embed page fetch failed")
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Warn().Int("status", resp.StatusCode).Str("url", embedURL).Msg("embed page status")
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		r.log.Warn().Err(err).Msg("embed page parse failed")
		return "", false
	}

	src, exists := doc.Find("#player_iframe").First().Attr("src")
	if !exists || src == "" {
		r.log.Debug().Str("url", embedURL).Msg("player iframe not found")
		return "", false
	}
	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}
	return src, true
}

// prorcpLink extracts the /prorcp/ path from the iframe body and rebases it
// onto the iframe's host.
func (r *Resolver) prorcpLink(ctx context.Context, iframeURL, referer string) (string, bool) {
	body, err := httputil.GetBody(ctx, r.client, iframeURL, referer)
	if err != nil {
		r.log.Warn().Err(err).Str("url", iframeURL).Msg("iframe fetch failed")
		return "", false
	}

	m := prorcpPattern.FindSubmatch(body)
	if m == nil {
		r.log.Debug().Str("url", iframeURL).Msg("prorcp path not found")
		return "", false
	}

	u, err := url.Parse(iframeURL)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("https://%s%s", u.Host, m[1]), true
}

// playlistLink finds the hidden-div payload on the rcp page and decodes it,
// falling back to a direct pattern match over the page body.
func (r *Resolver) playlistLink(ctx context.Context, rcpURL string) (string, bool) {
	body, err := httputil.GetBody(ctx, r.client, rcpURL, rcpURL)
	if err != nil {
		r.log.Warn().Err(err).Str("url", rcpURL).Msg("rcp page fetch failed")
		return "", false
	}

	encodedID, encodedStr := hiddenPayload(body)
	if encodedID != "" && encodedStr != "" {
		if link, ok := decodeStreamLink(encodedID, encodedStr); ok {
			// Decoded payloads may carry alternates joined by "or".
			link, _, _ = strings.Cut(link, "or")
			return strings.TrimSpace(link), true
		}
		r.log.Debug().Str("id", encodedID).Msg("hidden payload decode failed, trying pattern fallback")
	}

	if m := fallbackPattern.Find(body); m != nil {
		return addStreamHost(string(m)), true
	}

	r.log.Debug().Str("url", rcpURL).Msg("no stream link found")
	return "", false
}

// hiddenPayload extracts the hidden div's id and text, ignoring the report-UI
// div the page also hides.
func hiddenPayload(body []byte) (id, text string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", ""
	}

	div := doc.Find(`div[style*="none"]`).First()
	if div.Length() == 0 {
		return "", ""
	}

	text = strings.TrimSpace(div.Text())
	if strings.Contains(text, "Wrong Video") || strings.Contains(text, "Sent report") {
		return "", ""
	}
	id, _ = div.Attr("id")
	return id, text
}

// fetchSource retrieves the final link. Playlist responses are returned as
// absolutized text so the player needs no base document; anything else is
// handed over as a direct URL.
func (r *Resolver) fetchSource(ctx context.Context, link string) *Source {
	if err := httputil.ValidateURL(link); err != nil {
		r.log.Warn().Err(err).Str("link", link).Msg("resolved link invalid")
		return nil
	}

	body, err := httputil.GetBody(ctx, r.client, link, "")
	if err != nil {
		r.log.Debug().Err(err).Str("link", link).Msg("playlist fetch failed, using direct URL")
		return &Source{URL: link}
	}

	text := string(body)
	if !strings.HasPrefix(strings.TrimSpace(text), "#EXTM3U") {
		return &Source{URL: link}
	}

	return &Source{Playlist: absolutizePlaylist(text, link)}
}
