// Package extract turns fetched resources into plain text.
// HTML goes through goquery, PDF through ledongthuc/pdf, and DOCX through
// the OOXML zip container directly.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLText removes script/style/noscript nodes and returns the visible text
// of the page with whitespace collapsed to single spaces.
func HTMLText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script,style,noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// HTMLTitle returns the contents of the document's <title> element,
// whitespace-trimmed. Missing titles yield an empty string.
func HTMLTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// HTMLLinks parses anchor targets and resolves them against base.
// Malformed hrefs are dropped silently. Order follows document order so the
// crawl frontier stays deterministic.
func HTMLLinks(body []byte, base *url.URL) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		links = append(links, abs.String())
	})
	return links, nil
}
