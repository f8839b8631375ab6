package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// RewriteExportURL maps a Google Docs document URL to its DOCX export
// endpoint. The export endpoint serves the same document as a
// word-processor file, which the binary extraction path handles without
// JavaScript. Non-Docs URLs come back unchanged with ok=false.
func RewriteExportURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, false
	}
	if !strings.EqualFold(u.Hostname(), "docs.google.com") {
		return rawURL, false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 3 || segments[0] != "document" || segments[1] != "d" || segments[2] == "" {
		return rawURL, false
	}

	return fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=docx", segments[2]), true
}
