package crawler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases host", "https://Example.COM/Path", "https://example.com/Path"},
		{"strips default https port", "https://example.com:443/a", "https://example.com/a"},
		{"strips default http port", "http://example.com:80/a", "http://example.com/a"},
		{"drops fragment", "https://example.com/a#section", "https://example.com/a"},
		{"sorts query", "https://example.com/a?b=2&a=1", "https://example.com/a?a=1&b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeURL(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestInScope(t *testing.T) {
	t.Parallel()

	seed, err := url.Parse("https://example.com/docs/")
	require.NoError(t, err)

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"under seed prefix", "https://example.com/docs/page2", true},
		{"seed itself", "https://example.com/docs/", true},
		{"same host outside prefix", "https://example.com/other", false},
		{"different host", "https://other.example.net/docs/page", false},
		{"containment is not subdomain", "https://notexample.com/docs/", false},
		{"suffix trick", "https://example.com.evil.tld/docs/", false},
		{"non-http scheme", "mailto:admin@example.com", false},
		{"malformed", "https://exa mple.com/docs/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, InScope(tt.candidate, seed))
		})
	}
}

func TestRewriteExportURL(t *testing.T) {
	t.Parallel()

	got, ok := RewriteExportURL("https://docs.google.com/document/d/abc123/edit?tab=t.0")
	require.True(t, ok)
	require.Equal(t, "https://docs.google.com/document/d/abc123/export?format=docx", got)

	got, ok = RewriteExportURL("https://example.com/document/d/abc123/edit")
	require.False(t, ok)
	require.Equal(t, "https://example.com/document/d/abc123/edit", got)

	_, ok = RewriteExportURL("https://docs.google.com/spreadsheets/d/abc123/edit")
	require.False(t, ok)
}
