// Package textproc normalizes scraped text and splits it into
// embedding-sized chunks.
package textproc

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ibtikar-org-tr/rag-crawler/internal/document"
)

// Options toggles the individual cleaning passes. Each flag is independent;
// the processing order is fixed: entity decode, HTML, URLs, emails,
// diacritics, whitespace.
type Options struct {
	RemoveDiacritics    bool
	NormalizeWhitespace bool
	RemoveHTML          bool
	RemoveURLs          bool
	RemoveEmails        bool
}

// DefaultOptions mirrors the cleaning applied to scraped page content.
func DefaultOptions() Options {
	return Options{
		RemoveDiacritics:    true,
		NormalizeWhitespace: true,
		RemoveHTML:          true,
	}
}

var (
	// Arabic combining diacritic marks (tashkeel range plus dagger alif).
	arabicDiacritics = regexp.MustCompile(`[\x{064B}-\x{065F}\x{0670}\x{0671}]`)
	extraWhitespace  = regexp.MustCompile(`\s+`)
	htmlTags         = regexp.MustCompile(`<[^>]+>`)
	urlPattern       = regexp.MustCompile(`https?://[^\s<>"']+`)
	emailPattern     = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// Clean runs the enabled normalization passes over text.
func Clean(text string, opts Options) string {
	if text == "" {
		return ""
	}

	text = html.UnescapeString(text)
	if opts.RemoveHTML {
		text = htmlTags.ReplaceAllString(text, " ")
	}
	if opts.RemoveURLs {
		text = urlPattern.ReplaceAllString(text, " ")
	}
	if opts.RemoveEmails {
		text = emailPattern.ReplaceAllString(text, " ")
	}
	if opts.RemoveDiacritics {
		text = arabicDiacritics.ReplaceAllString(text, "")
	}
	if opts.NormalizeWhitespace {
		text = extraWhitespace.ReplaceAllString(text, " ")
	}
	return strings.TrimSpace(text)
}

// CleanDocument normalizes a raw document's content and title and derives
// metadata. Titles always get URLs and emails stripped regardless of opts,
// so a noisy <title> never leaks into search results.
func CleanDocument(raw document.RawDocument, opts Options) (document.CleanedDocument, error) {
	if !utf8.ValidString(raw.Content) {
		return document.CleanedDocument{}, fmt.Errorf("clean %s: %w", raw.URL, ErrInvalidEncoding)
	}

	cleaned := document.CleanedDocument{
		URL:         raw.URL,
		Content:     Clean(raw.Content, opts),
		ContentType: raw.MediaType,
	}

	titleOpts := opts
	titleOpts.RemoveURLs = true
	titleOpts.RemoveEmails = true
	cleaned.Title = Clean(raw.Title, titleOpts)

	meta := Metadata(cleaned)
	if cleaned.Title == "" {
		if candidate, ok := meta["extracted_title"].(string); ok {
			cleaned.Title = candidate
		}
	}
	if lang, ok := meta["detected_language"].(string); ok {
		cleaned.Language = lang
	}
	cleaned.Metadata = meta

	return cleaned, nil
}

// ErrInvalidEncoding marks content that is not valid UTF-8. This is a logic
// or transport bug upstream, so it propagates instead of degrading.
var ErrInvalidEncoding = fmt.Errorf("content is not valid UTF-8")

// Metadata derives URL, size, language, and title metadata for a document.
func Metadata(doc document.CleanedDocument) map[string]any {
	meta := make(map[string]any)

	if doc.URL != "" {
		if parsed, err := url.Parse(doc.URL); err == nil {
			meta["domain"] = parsed.Host
			meta["path"] = parsed.Path
		}
	}

	if doc.Content != "" {
		meta["word_count"] = len(strings.Fields(doc.Content))
		meta["char_count"] = utf8.RuneCountInString(doc.Content)
		meta["detected_language"] = DetectLanguage(doc.Content)
	}

	if doc.Title == "" && doc.Content != "" {
		if title := ExtractTitle(doc.Content); title != "" {
			meta["extracted_title"] = title
		}
	}

	return meta
}

// DetectLanguage guesses "ar", "en", or "unknown" by comparing counts of
// Arabic-range and Latin-range characters.
func DetectLanguage(content string) string {
	var arabic, latin int
	for _, r := range content {
		switch {
		case r >= 0x0600 && r <= 0x06FF:
			arabic++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}
	switch {
	case arabic > latin:
		return "ar"
	case latin > 0:
		return "en"
	default:
		return "unknown"
	}
}

// ExtractTitle adopts the first non-empty line under 200 characters as a
// title candidate. Returns "" when no line qualifies.
func ExtractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && utf8.RuneCountInString(line) < 200 {
			return line
		}
	}
	return ""
}
