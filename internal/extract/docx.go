package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// DOCXFailureMarker is emitted when a DOCX container cannot be parsed.
const DOCXFailureMarker = "[DOCX extraction failed]"

// DOCXText concatenates paragraph text from word/document.xml with newline
// separators, mirroring the PDF failure-marker-on-error policy.
func DOCXText(data []byte) string {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return DOCXFailureMarker
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return DOCXFailureMarker
		}
		content, err := io.ReadAll(rc)
		closeErr := rc.Close()
		if err != nil || closeErr != nil {
			return DOCXFailureMarker
		}
		return parseDocumentXML(content)
	}
	return DOCXFailureMarker
}

// documentXML models the subset of word/document.xml we care about.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Texts []string `xml:"t"`
}

func parseDocumentXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return DOCXFailureMarker
	}

	lines := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, r := range para.Runs {
			for _, t := range r.Texts {
				sb.WriteString(t)
			}
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}
