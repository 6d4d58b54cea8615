package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by theme and wrap width. WithAutoStyle can block on terminal
	// queries, so a fixed style is resolved once and renderers are reused.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders a product description for the detail pane. Falls
// back to the raw text when glamour fails.
func renderMarkdown(md string, width int, theme string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	if theme != "light" {
		theme = "dark"
	}

	key := theme + ":" + strconv.Itoa(width)
	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(theme)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func markdownStyleConfig(theme string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if theme == "light" {
		cfg = styles.LightStyleConfig
	}
	pick := func(c lipgloss.AdaptiveColor) *string {
		s := c.Dark
		if theme == "light" {
			s = c.Light
		}
		return &s
	}
	noMargin := uint(0)
	falseV := false

	// Descriptions are plain prose; keep them in the surface color and drop
	// the document margin so text lines up with the rest of the pane.
	cfg.Document.Margin = &noMargin
	cfg.Text.Color = pick(colorSurfaceFg)
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	cfg.Link.Color = pick(colorAccent)
	cfg.LinkText.Color = pick(colorAccent)
	cfg.BlockQuote.Faint = &falseV
	return cfg
}
