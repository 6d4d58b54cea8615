package session

import (
	"strings"

	"github.com/google/uuid"
)

const DefaultSiteKey = "6LdWCacqAAAAAC515r0g-993hsOE3ng6lFfQ_Upi"

// Captcha is the verification widget embedded in the login form. It reports
// its result through the OnChange callback: a token when the user passed the
// challenge, "" otherwise.
type Captcha interface {
	SiteKey() string
	// Challenge is the text shown to the user.
	Challenge() string
	Answer(input string)
	OnChange(fn func(token string))
	// Reset discards the current challenge and issues a new one.
	Reset()
}

// LocalCaptcha is a terminal stand-in for a hosted CAPTCHA: the user types
// back a short code. Tokens are opaque and never verified anywhere else.
type LocalCaptcha struct {
	siteKey  string
	code     string
	newCode  func() string
	newToken func() string
	onChange func(string)
}

type CaptchaOption func(*LocalCaptcha)

func WithCodeSource(fn func() string) CaptchaOption {
	return func(c *LocalCaptcha) { c.newCode = fn }
}

func WithTokenSource(fn func() string) CaptchaOption {
	return func(c *LocalCaptcha) { c.newToken = fn }
}

func NewLocalCaptcha(siteKey string, opts ...CaptchaOption) *LocalCaptcha {
	if strings.TrimSpace(siteKey) == "" {
		siteKey = DefaultSiteKey
	}
	c := &LocalCaptcha{
		siteKey:  siteKey,
		newCode:  randomCode,
		newToken: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.code = c.newCode()
	return c
}

func (c *LocalCaptcha) SiteKey() string   { return c.siteKey }
func (c *LocalCaptcha) Challenge() string { return c.code }

func (c *LocalCaptcha) OnChange(fn func(token string)) { c.onChange = fn }

// Answer checks input against the challenge, ignoring case and surrounding
// space. A wrong answer reports "" and rotates the challenge.
func (c *LocalCaptcha) Answer(input string) {
	token := ""
	if strings.EqualFold(strings.TrimSpace(input), c.code) {
		token = c.newToken()
	} else {
		c.code = c.newCode()
	}
	if c.onChange != nil {
		c.onChange(token)
	}
}

func (c *LocalCaptcha) Reset() {
	c.code = c.newCode()
}

func randomCode() string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(s[:6])
}
