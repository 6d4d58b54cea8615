package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and
// height lines tall, so lipgloss.JoinHorizontal keeps split panes aligned.
// A height of 0 keeps the line count as is.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i := range lines {
		lines[i] = padOrCut(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// padOrCut pads or truncates one line to w columns, ending truncated lines
// with an ellipsis and an SGR reset so styles don't bleed.
func padOrCut(s string, w int) string {
	if w <= 0 {
		return ""
	}
	cur := xansi.StringWidth(s)
	switch {
	case cur < w:
		return s + strings.Repeat(" ", w-cur)
	case cur > w:
		if w == 1 {
			return xansi.Cut(s, 0, 1) + "\x1b[0m"
		}
		return xansi.Cut(s, 0, w-1) + "…\x1b[0m"
	default:
		return s
	}
}

func truncateToWidth(s string, w int) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	if w <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	return xansi.Cut(s, 0, w-1) + "…"
}
