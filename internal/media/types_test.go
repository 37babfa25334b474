package media

import "testing"

func TestParseContentType(t *testing.T) {
	tests := []struct {
		in   string
		want ContentType
	}{
		{"movie", Movie},
		{"series", Series},
		{"tv", Series},
		{"", Movie},
		{"anything-else", Movie},
	}
	for _, tt := range tests {
		if got := ParseContentType(tt.in); got != tt.want {
			t.Errorf("ParseContentType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProgressKeys(t *testing.T) {
	if got := ProgressKey("tt0111161"); got != "tt0111161" {
		t.Errorf("ProgressKey = %q", got)
	}
	if got := EpisodeProgressKey("tt0903747", 2, 5); got != "tt0903747-s2-e5" {
		t.Errorf("EpisodeProgressKey = %q", got)
	}
}
