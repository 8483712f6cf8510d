package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ForgotPassword(t *testing.T) {
	data := NewForgotPasswordData("Bluestock", "Ravi", "ravi@x.io",
		WithResetURL("https://app/reset?token=t1"),
		WithExpiresAt(time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)))

	subject, text, html, err := Render(ForgotPassword, data)
	require.NoError(t, err)
	assert.Equal(t, "Reset your Bluestock password", subject)
	assert.Contains(t, text, "ravi@x.io")
	assert.Contains(t, text, "04 March 2026, 10:00 UTC")
	assert.Contains(t, html, `href="https://app/reset?token=t1"`)
	assert.NotContains(t, text, "Need help?")
}

func TestRender_DefaultsAndEscaping(t *testing.T) {
	data := NewForgotPasswordData("", "<b>x</b>", "x@x.io", WithSupportURL("https://help"))

	subject, text, html, err := Render(ForgotPassword, data)
	require.NoError(t, err)
	assert.Equal(t, "Reset your IPO Tracker password", subject)
	assert.Contains(t, text, "Need help? https://help")
	assert.Contains(t, html, "&lt;b&gt;x&lt;/b&gt;")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("missing", nil)
	assert.Error(t, err)
}
