// Package session implements the login gate in front of the product list.
//
// The gate is cosmetic: credentials are only checked for shape and the
// CAPTCHA token is accepted as long as it is non-empty.
package session

import (
	"errors"
	"regexp"
	"strings"
)

type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	switch s {
	case LoggedIn:
		return "logged-in"
	default:
		return "logged-out"
	}
}

var (
	ErrCaptchaRequired  = errors.New("please complete the CAPTCHA")
	ErrInvalidEmail     = errors.New("enter a valid email address")
	ErrPasswordRequired = errors.New("enter a password")
)

// emailPattern is the HTML "valid e-mail address" production.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

type Gate struct {
	state    State
	verified bool
	email    string
}

func NewGate() *Gate {
	return &Gate{}
}

func (g *Gate) State() State { return g.state }

func (g *Gate) LoggedIn() bool { return g.state == LoggedIn }

// Email is the address the current session was opened with.
func (g *Gate) Email() string { return g.email }

// CaptchaChanged receives the widget's verification token. Any non-empty
// token verifies the form; an empty one (expiry, failed attempt) leaves the
// current verification in place.
func (g *Gate) CaptchaChanged(token string) {
	if token != "" {
		g.verified = true
	}
}

// CanSubmit reports whether the submit button is enabled.
func (g *Gate) CanSubmit() bool { return g.verified }

// Submit opens the session. The password is never checked beyond being present.
func (g *Gate) Submit(email, password string) error {
	if !g.verified {
		return ErrCaptchaRequired
	}
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if password == "" {
		return ErrPasswordRequired
	}
	g.state = LoggedIn
	g.email = strings.TrimSpace(email)
	return nil
}

func (g *Gate) Logout() {
	g.state = LoggedOut
	g.verified = false
	g.email = ""
}

// ValidEmail applies the same check as an HTML email input; surrounding
// whitespace is ignored.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && emailPattern.MatchString(s)
}
