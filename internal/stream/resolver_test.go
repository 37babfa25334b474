package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"baggedflix/internal/media"
)

// caesarEncode is the inverse of the +3 shift transform, used to build
// hidden-div payloads for the test server.
func caesarEncode(s string) string {
	out := []byte(s)
	for i, c := range out {
		switch {
		case c >= 'd' && c <= 'z', c >= 'D' && c <= 'Z':
			out[i] = c - 3
		case c >= 'a' && c <= 'c', c >= 'A' && c <= 'C':
			out[i] = c + 23
		}
	}
	return string(out)
}

// embedServer serves the full embed -> iframe -> rcp -> playlist chain from
// one TLS server, with the final playlist body swappable per test.
func embedServer(t *testing.T, playlistBody string) (*Resolver, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)
	host := strings.TrimPrefix(srv.URL, "https://")

	mux.HandleFunc("/embed/movie/tt0111161", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><iframe id="player_iframe" src="//%s/iframe"></iframe></body></html>`, host)
	})
	mux.HandleFunc("/embed/tv/tt0903747/2-5", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><iframe id="player_iframe" src="//%s/iframe"></iframe></body></html>`, host)
	})
	mux.HandleFunc("/iframe", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>var player = { src: '/prorcp/QmFnZ2Vk=' };</script>`)
	})
	mux.HandleFunc("/prorcp/QmFnZ2Vk=", func(w http.ResponseWriter, r *http.Request) {
		link := srv.URL + "/pl/master.m3u8"
		fmt.Fprintf(w, `<html><body><div id="o2VSUnjnZl" style="display:none">%s</div></body></html>`,
			caesarEncode(link))
	})
	mux.HandleFunc("/pl/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, playlistBody)
	})

	r := NewResolver(host, zerolog.Nop())
	r.client = srv.Client()
	return r, srv
}

func TestResolvePlaylistSource(t *testing.T) {
	r, srv := embedServer(t, "#EXTM3U\nseg0.ts\nseg1.ts\n")

	src := r.Resolve(context.Background(), "tt0111161", media.Movie, 0, 0)
	if src == nil {
		t.Fatal("Resolve() = nil")
	}
	if src.Direct() {
		t.Fatalf("got direct URL %q, want playlist source", src.URL)
	}

	// Segment lines are absolutized against the playlist URL.
	want := "#EXTM3U\n" + srv.URL + "/pl/seg0.ts\n" + srv.URL + "/pl/seg1.ts\n"
	if src.Playlist != want {
		t.Errorf("Playlist =\n%s\nwant:\n%s", src.Playlist, want)
	}
}

func TestResolveSeriesSource(t *testing.T) {
	r, _ := embedServer(t, "#EXTM3U\nseg0.ts\n")

	if src := r.Resolve(context.Background(), "tt0903747", media.Series, 2, 5); src == nil {
		t.Error("Resolve() = nil for valid series target")
	}

	// Series resolution without a concrete episode is absent, not an error.
	if src := r.Resolve(context.Background(), "tt0903747", media.Series, 0, 0); src != nil {
		t.Errorf("Resolve() without season/episode = %+v, want nil", src)
	}
}

func TestResolveDirectSource(t *testing.T) {
	// A non-playlist response hands the link over as a direct URL.
	r, srv := embedServer(t, "binary video data")

	src := r.Resolve(context.Background(), "tt0111161", media.Movie, 0, 0)
	if src == nil {
		t.Fatal("Resolve() = nil")
	}
	if !src.Direct() {
		t.Fatal("want direct source")
	}
	if want := srv.URL + "/pl/master.m3u8"; src.URL != want {
		t.Errorf("URL = %q, want %q", src.URL, want)
	}
}

func TestResolveAbsent(t *testing.T) {
	t.Run("embed page missing", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.NotFoundHandler())
		t.Cleanup(srv.Close)
		r := NewResolver(strings.TrimPrefix(srv.URL, "https://"), zerolog.Nop())
		r.client = srv.Client()

		if src := r.Resolve(context.Background(), "tt0111161", media.Movie, 0, 0); src != nil {
			t.Errorf("Resolve() = %+v, want nil", src)
		}
	})

	t.Run("no player iframe", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body>nothing here</body></html>`)
		}))
		t.Cleanup(srv.Close)
		r := NewResolver(strings.TrimPrefix(srv.URL, "https://"), zerolog.Nop())
		r.client = srv.Client()

		if src := r.Resolve(context.Background(), "tt0111161", media.Movie, 0, 0); src != nil {
			t.Errorf("Resolve() = %+v, want nil", src)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		r := NewResolver("unused.example", zerolog.Nop())
		if src := r.Resolve(context.Background(), "../etc/passwd", media.Movie, 0, 0); src != nil {
			t.Errorf("Resolve() = %+v, want nil", src)
		}
	})
}

func TestHiddenPayloadSkipsReportUI(t *testing.T) {
	body := []byte(`<html><body><div id="x" style="display:none">Wrong Video? Sent report!</div></body></html>`)
	if id, text := hiddenPayload(body); id != "" || text != "" {
		t.Errorf("hiddenPayload() = (%q, %q), want empty for report UI", id, text)
	}

	body = []byte(`<html><body><div id="abc" style="display: none;">payload</div></body></html>`)
	id, text := hiddenPayload(body)
	if id != "abc" || text != "payload" {
		t.Errorf("hiddenPayload() = (%q, %q)", id, text)
	}
}
