package tui

import (
	"time"

	"github.com/mattn/go-runewidth"
)

// formatDate matches the web client's short date rendering.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 2006")
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	return runewidth.Truncate(s, max-1, "…")
}
