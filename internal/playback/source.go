package playback

import (
	"fmt"
	"os"
	"path/filepath"

	"baggedflix/internal/stream"
)

// materialize turns a resolved source into something the player can open.
// Raw playlist text is written to a temp .m3u8 file, the local analog of the
// synthetic blob URL the embedded widget would get; the returned cleanup
// releases it. Direct URLs pass through with a no-op cleanup.
func materialize(src *stream.Source) (string, func(), error) {
	if src.Direct() {
		return src.URL, func() {}, nil
	}

	dir, err := os.MkdirTemp("", "baggedflix-stream-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating stream temp dir: %w", err)
	}

	path := filepath.Join(dir, "stream.m3u8")
	if err := os.WriteFile(path, []byte(src.Playlist), 0600); err != nil {
		os.RemoveAll(dir)
		return "", nil, fmt.Errorf("writing playlist file: %w", err)
	}

	return path, func() { os.RemoveAll(dir) }, nil
}
