package subtitle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"baggedflix/internal/media"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	c := New(strings.TrimPrefix(srv.URL, "https://"), zerolog.Nop())
	c.client = srv.Client()
	return c
}

func TestFindPicksHighestScore(t *testing.T) {
	var gotPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[
			{"SubDownloadLink": "https://dl.example/low.gz", "SubFormat": "srt", "Score": 4.5},
			{"SubDownloadLink": "https://dl.example/high.gz", "SubFormat": "srt", "Score": 9.1,
			 "SubFileName": "high.srt", "LanguageName": "English"},
			{"SubDownloadLink": "https://dl.example/mid.gz", "SubFormat": "srt", "Score": 7.0}
		]`))
	}))

	cap := c.Find(context.Background(), "tt0111161", media.Movie, 0, 0, "eng")
	if cap == nil {
		t.Fatal("Find() = nil")
	}
	if gotPath != "/search/imdbid-0111161/sublanguageid-eng" {
		t.Errorf("request path = %q", gotPath)
	}
	// Highest score wins, and the gzipped link is rewritten to the format.
	if cap.URL != "https://dl.example/high.srt" {
		t.Errorf("URL = %q", cap.URL)
	}
	if cap.FileName != "high.srt" || cap.Language != "English" {
		t.Errorf("caption = %+v", cap)
	}
}

func TestFindTieKeepsFirst(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"SubDownloadLink": "https://dl.example/first.srt", "SubFormat": "srt", "Score": 8.0},
			{"SubDownloadLink": "https://dl.example/second.srt", "SubFormat": "srt", "Score": 8.0}
		]`))
	}))

	cap := c.Find(context.Background(), "tt0111161", media.Movie, 0, 0, "eng")
	if cap == nil {
		t.Fatal("Find() = nil")
	}
	if cap.URL != "https://dl.example/first.srt" {
		t.Errorf("URL = %q, want the first of equal scores", cap.URL)
	}
}

func TestFindEpisodePath(t *testing.T) {
	var gotPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[{"SubDownloadLink": "https://dl.example/ep.srt", "SubFormat": "srt", "Score": 5}]`))
	}))

	cap := c.Find(context.Background(), "tt0903747", media.Series, 2, 5, "eng")
	if cap == nil {
		t.Fatal("Find() = nil")
	}
	if gotPath != "/search/episode-5/imdbid-0903747/season-2/sublanguageid-eng" {
		t.Errorf("request path = %q", gotPath)
	}
}

func TestFindAbsent(t *testing.T) {
	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	empty := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	tests := []struct {
		name        string
		handler     http.Handler
		imdbID      string
		contentType media.ContentType
		season      int
		episode     int
	}{
		{"provider error", failing, "tt1", media.Movie, 0, 0},
		{"no candidates", empty, "tt1", media.Movie, 0, 0},
		{"missing imdb id", empty, "", media.Movie, 0, 0},
		{"series without episode", empty, "tt1", media.Series, 1, 0},
		{"series without season", empty, "tt1", media.Series, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, tt.handler)
			if cap := c.Find(context.Background(), tt.imdbID, tt.contentType, tt.season, tt.episode, "eng"); cap != nil {
				t.Errorf("Find() = %+v, want nil", cap)
			}
		})
	}
}

func TestTempDirCleanup(t *testing.T) {
	tmp, err := NewTempDir()
	if err != nil {
		t.Fatalf("NewTempDir() error: %v", err)
	}

	if _, err := os.Stat(tmp.path); err != nil {
		t.Fatalf("temp dir missing: %v", err)
	}
	tmp.Cleanup()
	if _, err := os.Stat(tmp.path); err == nil {
		t.Error("temp dir still exists after Cleanup")
	}
}
