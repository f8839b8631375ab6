package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDOCXTextJoinsParagraphs(t *testing.T) {
	t.Parallel()

	payload := buildDOCX(t, `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>First paragraph.</t></r></p>
    <p><r><t>Second </t></r><r><t>paragraph.</t></r></p>
    <p></p>
  </body>
</document>`)

	text := DOCXText(payload)
	require.Equal(t, "First paragraph.\nSecond paragraph.\n", text)
}

func TestDOCXTextFailureMarker(t *testing.T) {
	t.Parallel()

	require.Equal(t, DOCXFailureMarker, DOCXText([]byte("not a zip archive")))

	missingDoc := func() []byte {
		var buf bytes.Buffer
		w := zip.NewWriter(&buf)
		f, err := w.Create("word/styles.xml")
		require.NoError(t, err)
		_, err = f.Write([]byte("<styles/>"))
		require.NoError(t, err)
		require.NoError(t, w.Close())
		return buf.Bytes()
	}()
	require.Equal(t, DOCXFailureMarker, DOCXText(missingDoc))
}

func TestPDFTextFailureMarker(t *testing.T) {
	t.Parallel()

	require.Equal(t, PDFFailureMarker, PDFText([]byte("definitely not a pdf")))
	require.Equal(t, PDFFailureMarker, PDFText(nil))
}
