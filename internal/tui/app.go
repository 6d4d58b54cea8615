package tui

import (
	"context"

	"shopfront-cli/internal/model"
	"shopfront-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type screen int

const (
	screenLogin screen = iota
	screenBrowse
)

// Fetcher loads the product catalog. *catalog.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.Product, error)
}

// catalogLoadedMsg carries the result of the one fetch issued per mount of
// the main screen. mount identifies which mount asked for it.
type catalogLoadedMsg struct {
	mount    int
	products []model.Product
	err      error
}

type appModel struct {
	ctx     context.Context
	fetcher Fetcher
	log     *zap.Logger
	theme   string

	gate    *session.Gate
	captcha session.Captcha

	screen screen
	login  loginModel
	browse browseModel

	// mount increments every time the main screen is mounted; a fetch result
	// for an older mount is dropped.
	mount       int
	cancelFetch context.CancelFunc

	width  int
	height int
}

func newAppModel(ctx context.Context, fetcher Fetcher, captcha session.Captcha, log *zap.Logger, theme string) appModel {
	if log == nil {
		log = zap.NewNop()
	}
	gate := session.NewGate()
	return appModel{
		ctx:     ctx,
		fetcher: fetcher,
		log:     log,
		theme:   theme,
		gate:    gate,
		captcha: captcha,
		screen:  screenLogin,
		login:   newLoginModel(gate, captcha),
	}
}

func (m appModel) Init() tea.Cmd { return m.login.Init() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var cmd tea.Cmd
		m.login, _ = m.login.Update(msg)
		m.browse, cmd = m.browse.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.unmountBrowse()
			return m, tea.Quit
		}
		if m.screen == screenLogin && msg.String() == "esc" {
			return m, tea.Quit
		}

	case loginSucceededMsg:
		if m.screen != screenLogin || !m.gate.LoggedIn() {
			return m, nil
		}
		m.log.Info("login", zap.String("email", msg.email))
		return m, m.mountBrowse(msg.email)

	case quitRequestedMsg:
		m.unmountBrowse()
		return m, tea.Quit

	case logoutRequestedMsg:
		if m.screen != screenBrowse {
			return m, nil
		}
		m.log.Info("logout", zap.String("email", m.gate.Email()))
		m.unmountBrowse()
		m.gate.Logout()
		m.screen = screenLogin
		m.login = newLoginModel(m.gate, m.captcha)
		m.login, _ = m.login.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		return m, m.login.Init()

	case catalogLoadedMsg:
		if msg.mount != m.mount || m.screen != screenBrowse {
			m.log.Debug("dropping catalog for unmounted screen", zap.Int("mount", msg.mount))
			return m, nil
		}
		if msg.err != nil {
			m.log.Error("error fetching products", zap.Error(msg.err))
			return m, nil
		}
		m.log.Info("catalog loaded", zap.Int("products", len(msg.products)))
		m.browse.setCatalog(msg.products)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenLogin:
		if _, ok := msg.(tea.MouseMsg); ok {
			return m, nil
		}
		m.login, cmd = m.login.Update(msg)
	case screenBrowse:
		m.browse, cmd = m.browse.Update(msg)
	}
	return m, cmd
}

// mountBrowse builds a fresh main screen and issues its single catalog fetch.
func (m *appModel) mountBrowse(email string) tea.Cmd {
	m.unmountBrowse()
	m.mount++
	m.screen = screenBrowse
	m.browse = newBrowseModel(email, m.theme)
	m.browse.width, m.browse.height = m.width, m.height

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelFetch = cancel
	return fetchCatalog(ctx, m.fetcher, m.mount)
}

func (m *appModel) unmountBrowse() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

func fetchCatalog(ctx context.Context, f Fetcher, mount int) tea.Cmd {
	return func() tea.Msg {
		products, err := f.Fetch(ctx)
		return catalogLoadedMsg{mount: mount, products: products, err: err}
	}
}

func (m appModel) View() string {
	if m.screen == screenBrowse {
		return m.browse.View()
	}
	return m.login.View()
}
