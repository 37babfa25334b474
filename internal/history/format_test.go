package history

import (
	"testing"

	"baggedflix/internal/media"
)

func TestFormatForDisplay(t *testing.T) {
	entries := []media.HistoryEntry{
		{Title: "The Shawshank Redemption", Type: "movie", Position: 3600, Duration: 7200},
		{Title: "Breaking Bad", Type: "series", Season: 2, Episode: 5, Position: 600},
		{Title: "Unstarted", Type: "movie"},
	}

	got := FormatForDisplay(entries)
	want := []string{
		"The Shawshank Redemption [50%]",
		"Breaking Bad S02E05 [10m]",
		"Unstarted",
	}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
