package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFFailureMarker is emitted instead of text when a PDF cannot be parsed
// at all, so the crawl keeps going instead of aborting on one bad file.
const PDFFailureMarker = "[PDF extraction failed]"

// PDFText concatenates per-page extracted text with newline separators.
// A page that yields no text contributes an empty string. Total parse
// failure degrades to PDFFailureMarker rather than an error.
func PDFText(data []byte) string {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return PDFFailureMarker
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n")
}
