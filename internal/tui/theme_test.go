package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestResolveTheme_Priority(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		configured string
		colorfgbg  string
		want       string
	}{
		{name: "env wins over config", env: "light", configured: "dark", want: "light"},
		{name: "config when env is auto", env: "auto", configured: "dark", want: "dark"},
		{name: "config light", configured: "LIGHT", want: "light"},
		{name: "colorfgbg dark bg", configured: "auto", colorfgbg: "15;0", want: "dark"},
		{name: "colorfgbg light bg", configured: "auto", colorfgbg: "0;15", want: "light"},
		{name: "colorfgbg three parts", colorfgbg: "0;default;15", want: "light"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SHOPFRONT_TUI_THEME", tt.env)
			t.Setenv("COLORFGBG", tt.colorfgbg)
			if got := resolveTheme(tt.configured); got != tt.want {
				t.Fatalf("resolveTheme(%q) = %q, want %q", tt.configured, got, tt.want)
			}
		})
	}
}

func TestApplyThemePreference_SetsBackground(t *testing.T) {
	old := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(old) })
	t.Setenv("SHOPFRONT_TUI_THEME", "")
	t.Setenv("COLORFGBG", "")

	if got := applyThemePreference("light"); got != "light" || lipgloss.HasDarkBackground() {
		t.Fatalf("expected light background, got %q dark=%v", got, lipgloss.HasDarkBackground())
	}
	if got := applyThemePreference("dark"); got != "dark" || !lipgloss.HasDarkBackground() {
		t.Fatalf("expected dark background, got %q dark=%v", got, lipgloss.HasDarkBackground())
	}
}

func TestMarkdownStyleConfig_FollowsTheme(t *testing.T) {
	for _, theme := range []string{"light", "dark"} {
		cfg := markdownStyleConfig(theme)
		if cfg.Document.Margin == nil || *cfg.Document.Margin != 0 {
			t.Fatalf("%s: expected zero document margin", theme)
		}
		want := colorSurfaceFg.Dark
		if theme == "light" {
			want = colorSurfaceFg.Light
		}
		if cfg.Text.Color == nil || *cfg.Text.Color != want {
			t.Fatalf("%s: text color got %v want %q", theme, cfg.Text.Color, want)
		}
	}
}

func TestRenderMarkdown_WrapsToWidth(t *testing.T) {
	md := "A **soft** cotton shirt. " + strings.Repeat("Breathable fabric for everyday wear. ", 6)
	out := renderMarkdown(md, 30, "dark")
	if out == "" {
		t.Fatalf("expected rendered output")
	}
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 30 {
			t.Fatalf("line wider than 30 (%d): %q", w, line)
		}
	}
	if renderMarkdown("   ", 30, "dark") != "" {
		t.Fatalf("expected blank description to render empty")
	}
}
