package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL standardizes a URL so the visited set can deduplicate it.
// It lowercases the scheme and host, removes default ports and fragments,
// and sorts query parameters.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.Scheme == "http" && strings.HasSuffix(u.Host, ":80") {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" && strings.HasSuffix(u.Host, ":443") {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.Fragment = ""

	q := u.Query()
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// InScope reports whether candidate belongs to the crawl subtree rooted at
// seed. Two conditions must hold: the candidate's host equals the seed's
// host or is a dot-boundary subdomain of it, and the absolute candidate URL
// starts with the seed URL string. Substring host containment is never used;
// "example.com" does not admit "notexample.com".
func InScope(candidate string, seed *url.URL) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	seedHost := strings.ToLower(seed.Hostname())
	if host != seedHost && !strings.HasSuffix(host, "."+seedHost) {
		return false
	}

	return strings.HasPrefix(candidate, seed.String())
}
