package tui

import (
	"context"

	"shopfront-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	Fetcher Fetcher
	Captcha session.Captcha
	Logger  *zap.Logger
	// Theme is the configured tui.theme (auto|light|dark).
	Theme string
	Mouse bool
}

// Run starts the interactive storefront and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	theme := applyThemePreference(opts.Theme)

	captcha := opts.Captcha
	if captcha == nil {
		captcha = session.NewLocalCaptcha("")
	}
	m := newAppModel(ctx, opts.Fetcher, captcha, opts.Logger, theme)

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Mouse {
		// Cell motion reports movement only while a button is held, which is
		// exactly a drag.
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	_, err := tea.NewProgram(m, progOpts...).Run()
	return err
}
