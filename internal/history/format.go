package history

import (
	"fmt"

	"baggedflix/internal/media"
)

// FormatForDisplay creates picker display strings from history entries.
func FormatForDisplay(entries []media.HistoryEntry) []string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		var display string
		if e.Type == media.Series.String() {
			display = fmt.Sprintf("%s S%02dE%02d", e.Title, e.Season, e.Episode)
		} else {
			display = e.Title
		}
		if e.Position > 0 {
			if e.Duration > 0 {
				display += fmt.Sprintf(" [%.0f%%]", e.Position/e.Duration*100)
			} else {
				display += fmt.Sprintf(" [%dm]", int(e.Position)/60)
			}
		}
		items = append(items, display)
	}
	return items
}
