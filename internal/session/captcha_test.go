package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func fixedCodes(codes ...string) func() string {
	i := 0
	return func() string {
		c := codes[i%len(codes)]
		i++
		return c
	}
}

func TestLocalCaptcha_CorrectAnswerReportsToken(t *testing.T) {
	c := NewLocalCaptcha("", WithCodeSource(fixedCodes("AB12CD")), WithTokenSource(func() string { return "tok-1" }))
	require.Equal(t, DefaultSiteKey, c.SiteKey())
	require.Equal(t, "AB12CD", c.Challenge())

	var got []string
	c.OnChange(func(token string) { got = append(got, token) })

	c.Answer("  ab12cd ")
	require.Equal(t, []string{"tok-1"}, got)
}

func TestLocalCaptcha_WrongAnswerReportsEmptyAndRotates(t *testing.T) {
	c := NewLocalCaptcha("site", WithCodeSource(fixedCodes("AAAAAA", "BBBBBB")))
	var got []string
	c.OnChange(func(token string) { got = append(got, token) })

	c.Answer("nope")
	require.Equal(t, []string{""}, got)
	require.Equal(t, "BBBBBB", c.Challenge())
	require.Equal(t, "site", c.SiteKey())
}

func TestLocalCaptcha_DefaultTokensAreUUIDs(t *testing.T) {
	c := NewLocalCaptcha("")
	require.Len(t, c.Challenge(), 6)

	var token string
	c.OnChange(func(s string) { token = s })
	c.Answer(c.Challenge())

	_, err := uuid.Parse(token)
	require.NoError(t, err)
}

func TestLocalCaptcha_DrivesGate(t *testing.T) {
	g := NewGate()
	c := NewLocalCaptcha("", WithCodeSource(fixedCodes("XYZ789", "QQQQQQ")))
	c.OnChange(g.CaptchaChanged)

	c.Answer("wrong")
	require.False(t, g.CanSubmit())

	c.Answer("QQQQQQ")
	require.True(t, g.CanSubmit())
}
