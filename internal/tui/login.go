package tui

import (
	"errors"
	"strings"

	"shopfront-cli/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
	fieldCaptcha
	fieldSubmit
	loginFieldCount
)

// loginSucceededMsg is emitted once the gate accepts the form.
type loginSucceededMsg struct{ email string }

type loginModel struct {
	gate    *session.Gate
	captcha session.Captcha

	email    textinput.Model
	password textinput.Model
	answer   textinput.Model
	focus    loginField

	// status is the single-line feedback under the form (alert or hint).
	status    string
	statusBad bool

	keys loginKeyMap
	help help.Model

	width int
}

func newLoginModel(gate *session.Gate, captcha session.Captcha) loginModel {
	email := textinput.New()
	email.Placeholder = "Email"
	email.Prompt = ""
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "Password"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	answer := textinput.New()
	answer.Placeholder = "Type the code"
	answer.Prompt = ""
	answer.CharLimit = 16

	m := loginModel{
		gate:     gate,
		captcha:  captcha,
		email:    email,
		password: password,
		answer:   answer,
		keys:     newLoginKeyMap(),
		help:     help.New(),
	}
	captcha.Reset()
	captcha.OnChange(gate.CaptchaChanged)
	m.email.Focus()
	return m
}

func (m loginModel) Init() tea.Cmd { return textinput.Blink }

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus((m.focus + 1) % loginFieldCount)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus((m.focus + loginFieldCount - 1) % loginFieldCount)
		case key.Matches(msg, m.keys.Submit):
			if m.focus == fieldCaptcha {
				m.verifyCaptcha()
				if m.gate.CanSubmit() {
					return m, m.setFocus(fieldSubmit)
				}
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldEmail:
		m.email, cmd = m.email.Update(msg)
	case fieldPassword:
		m.password, cmd = m.password.Update(msg)
	case fieldCaptcha:
		m.answer, cmd = m.answer.Update(msg)
	}
	return m, cmd
}

func (m *loginModel) setFocus(f loginField) tea.Cmd {
	m.focus = f
	m.email.Blur()
	m.password.Blur()
	m.answer.Blur()
	switch f {
	case fieldEmail:
		return m.email.Focus()
	case fieldPassword:
		return m.password.Focus()
	case fieldCaptcha:
		return m.answer.Focus()
	}
	return nil
}

func (m *loginModel) verifyCaptcha() {
	m.captcha.Answer(m.answer.Value())
	m.answer.SetValue("")
	if m.gate.CanSubmit() {
		m.status, m.statusBad = "CAPTCHA verified.", false
		return
	}
	m.status, m.statusBad = "That code didn't match. Try the new one.", true
}

// submit mirrors a form submit: the gate decides, and a refused submit only
// produces feedback.
func (m loginModel) submit() (loginModel, tea.Cmd) {
	err := m.gate.Submit(m.email.Value(), m.password.Value())
	switch {
	case err == nil:
		email := m.gate.Email()
		return m, func() tea.Msg { return loginSucceededMsg{email: email} }
	case errors.Is(err, session.ErrCaptchaRequired):
		m.status, m.statusBad = "Please complete the CAPTCHA!", true
	case errors.Is(err, session.ErrInvalidEmail):
		m.status, m.statusBad = err.Error(), true
		return m, m.setFocus(fieldEmail)
	case errors.Is(err, session.ErrPasswordRequired):
		m.status, m.statusBad = err.Error(), true
		return m, m.setFocus(fieldPassword)
	default:
		m.status, m.statusBad = err.Error(), true
	}
	return m, nil
}

const loginFormWidth = 44

func (m loginModel) View() string {
	label := func(s string, f loginField) string {
		st := styleMuted()
		if m.focus == f {
			st = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
		}
		return st.Render(s)
	}
	input := func(v string) string {
		return renderInputLine(loginFormWidth, v)
	}

	captchaBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Padding(0, 1).
		Width(loginFormWidth - 2)
	captchaState := styleMuted().Render("not verified")
	if m.gate.CanSubmit() {
		captchaState = lipgloss.NewStyle().Foreground(colorPrice).Render("✓ verified")
	}
	captcha := captchaBox.Render(strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render("I'm not a robot") + "  " + captchaState,
		"Code: " + lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(m.captcha.Challenge()),
		label("Answer", fieldCaptcha),
		input(m.answer.View()),
		styleMuted().Render("site " + truncateToWidth(m.captcha.SiteKey(), loginFormWidth-10)),
	}, "\n"))

	button := lipgloss.NewStyle().Padding(0, 2)
	switch {
	case !m.gate.CanSubmit():
		button = button.Foreground(colorDisabledFg).Background(colorControlBg)
	case m.focus == fieldSubmit:
		button = button.Bold(true).Foreground(colorAccentFg).Background(colorAccent)
	default:
		button = button.Foreground(colorSurfaceFg).Background(colorControlBg)
	}
	submitLabel := "Login"
	if !m.gate.CanSubmit() {
		submitLabel = "Login (disabled)"
	}

	status := ""
	if m.status != "" {
		if m.statusBad {
			status = styleAlert().Render(m.status)
		} else {
			status = styleMuted().Render(m.status)
		}
	}

	form := strings.Join([]string{
		styleTitle().Render("Login"),
		"",
		label("Email", fieldEmail),
		input(m.email.View()),
		"",
		label("Password", fieldPassword),
		input(m.password.View()),
		"",
		captcha,
		"",
		button.Render(submitLabel),
		"",
		status,
		m.help.ShortHelpView(m.keys.ShortHelp()),
	}, "\n")

	if m.width > loginFormWidth {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, form)
	}
	return form
}

func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	// Inputs always render as one visual line.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")
	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	return padOrCut(line, bodyW)
}
