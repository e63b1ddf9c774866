package web

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown_OffsiteLinksOpenInNewTab(t *testing.T) {
	out := string(renderMarkdownHTML("See [docs](https://example.com/a) and [list](/tasks?search=milk).\nAlso https://go.dev"))
	require.Contains(t, out, `<a href="https://example.com/a" target="_blank" rel="noopener noreferrer">docs</a>`)
	require.Contains(t, out, `<a href="/tasks?search=milk">list</a>`)
	require.Contains(t, out, `<a href="https://go.dev" target="_blank" rel="noopener noreferrer">`)
}

func TestRenderMarkdown_EscapesRawHTML(t *testing.T) {
	out := string(renderMarkdownHTML("<script>alert(1)</script>\n\nhi :tada:"))
	require.NotContains(t, out, "<script>")
	require.NotContains(t, out, ":tada:")
	require.Empty(t, renderMarkdownHTML("   "))
}
