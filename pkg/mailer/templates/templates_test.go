package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_VerifyEmail(t *testing.T) {
	subject, text, html, err := Render(VerifyEmail, map[string]any{
		"Name":      "Ada",
		"VerifyURL": "https://example.com/verify?token=abc",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, text, "Ada")
	assert.Contains(t, text, "https://example.com/verify?token=abc")
	assert.Contains(t, html, `href="https://example.com/verify?token=abc"`)
}

func TestRender_ProfileUpdated(t *testing.T) {
	subject, text, html, err := Render(ProfileUpdated, map[string]any{"Name": "Ada"})

	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, text, "Ada")
	assert.Contains(t, html, "Ada")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("no_such_template", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_template")
}

func TestRender_HTMLEscapesData(t *testing.T) {
	_, _, html, err := Render(ProfileUpdated, map[string]any{"Name": "<script>"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
