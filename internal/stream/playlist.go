package stream

import (
	"net/url"
	"strings"
)

// absolutizePlaylist rewrites every URI line of a playlist against the URL it
// was fetched from, so the player can resolve segments and nested playlists
// without the original document's base. Comment and blank lines pass through
// untouched.
func absolutizePlaylist(text, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		ref, err := url.Parse(trimmed)
		if err != nil {
			continue
		}
		lines[i] = base.ResolveReference(ref).String()
	}
	return strings.Join(lines, "\n")
}
