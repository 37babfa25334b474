package playback

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"baggedflix/internal/stream"
)

func TestMaterializeDirectURL(t *testing.T) {
	src := &stream.Source{URL: "https://cdn.example/video.mp4"}

	target, cleanup, err := materialize(src)
	if err != nil {
		t.Fatalf("materialize() error: %v", err)
	}
	defer cleanup()

	if target != src.URL {
		t.Errorf("target = %q, want URL passthrough", target)
	}
}

func TestMaterializePlaylist(t *testing.T) {
	text := "#EXTM3U\nhttps://cdn.example/seg0.ts\n"
	src := &stream.Source{Playlist: text}

	target, cleanup, err := materialize(src)
	if err != nil {
		t.Fatalf("materialize() error: %v", err)
	}

	if !strings.HasSuffix(target, ".m3u8") {
		t.Errorf("target = %q, want a .m3u8 file", target)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading materialized playlist: %v", err)
	}
	if string(data) != text {
		t.Errorf("playlist content = %q, want %q", data, text)
	}

	// Cleanup releases the file and its directory.
	cleanup()
	if _, err := os.Stat(filepath.Dir(target)); !os.IsNotExist(err) {
		t.Errorf("temp dir still exists after cleanup: %v", err)
	}
}

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "fresh start",
			opts: Options{Title: "The Movie"},
			want: []string{
				"/tmp/stream.m3u8",
				"--force-media-title=The Movie",
				"--input-ipc-server=/tmp/sock",
				"--really-quiet",
			},
		},
		{
			name: "resume with subtitles",
			opts: Options{Title: "Show S01E02", StartPos: 1234.7, SubFile: "/tmp/subs.srt"},
			want: []string{
				"/tmp/stream.m3u8",
				"--force-media-title=Show S01E02",
				"--input-ipc-server=/tmp/sock",
				"--really-quiet",
				"--start=+1235",
				"--sub-file=/tmp/subs.srt",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildArgs("/tmp/stream.m3u8", "/tmp/sock", tt.opts)
			if len(got) != len(tt.want) {
				t.Fatalf("args = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("args[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
