package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_EscapesUserContent(t *testing.T) {
	html, err := Render(Message{
		Subject:    "Your submission",
		Paragraphs: []string{"Title: <script>alert(1)</script>", "  "},
		Meta: []MetaItem{
			{Label: "Token", Value: "abc"},
			{Label: "Empty", Value: ""},
		},
		ButtonText: "Open",
		ButtonURL:  "https://example.org/submissions/abc",
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "https://example.org/submissions/abc")
	assert.Contains(t, html, "Token")
	assert.NotContains(t, html, ">Empty<")
}

func TestRender_MultilineParagraph(t *testing.T) {
	html, err := Render(Message{Subject: "s", Paragraphs: []string{"line one\nline two"}})
	require.NoError(t, err)
	assert.Contains(t, html, "line one<br />line two")
}
