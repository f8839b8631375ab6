package extract

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>  Docs Home  </title>
  <style>body { color: red; }</style>
  <script>console.log("tracking");</script>
</head>
<body>
  <noscript>enable javascript</noscript>
  <h1>Welcome</h1>
  <p>Getting   started guide.</p>
  <a href="/docs/page2">Next</a>
  <a href="https://other.example.net/away">Away</a>
  <a href="mailto:team@example.com">Mail</a>
  <a href="#section">Anchor</a>
</body>
</html>`

func TestHTMLTextStripsScriptsAndCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	text, err := HTMLText([]byte(samplePage))
	require.NoError(t, err)
	require.NotContains(t, text, "tracking")
	require.NotContains(t, text, "color: red")
	require.NotContains(t, text, "enable javascript")
	require.Contains(t, text, "Welcome Getting started guide.")
}

func TestHTMLTitle(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Docs Home", HTMLTitle([]byte(samplePage)))
	require.Equal(t, "", HTMLTitle([]byte("<html><body>no title</body></html>")))
}

func TestHTMLLinksResolvesRelativeAndDropsNonHTTP(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/docs/")
	require.NoError(t, err)

	links, err := HTMLLinks([]byte(samplePage), base)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://example.com/docs/page2",
		"https://other.example.net/away",
		"https://example.com/docs/#section",
	}, links)
}
