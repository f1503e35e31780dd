package output

import (
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// RelTime renders an RFC 3339 timestamp relative to now. Anything older than
// a week is shown as a date; unparsable input is returned unchanged.
func RelTime(ts string, now time.Time) string {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < 7*24*time.Hour:
		return humanize.RelTime(t, now, "ago", "from now")
	default:
		return t.Format("2006-01-02")
	}
}

func count(n int64) string { return humanize.Comma(n) }

// wrap word-wraps s to width and keeps at most maxLines lines, marking the cut
// with "...". maxLines <= 0 keeps everything.
func wrap(s string, width, maxLines int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if width < 10 {
		width = 10
	}
	lines := strings.Split(ansi.Wrap(s, width, ""), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = append(lines[:maxLines], "...")
	}
	return lines
}

func truncate(s string, width int) string {
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
