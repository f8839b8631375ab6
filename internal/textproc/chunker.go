package textproc

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ibtikar-org-tr/rag-crawler/internal/document"
)

// ChunkOptions controls how text is split for embedding.
type ChunkOptions struct {
	// Size is the maximum chunk length in characters.
	Size int
	// Overlap is a character budget carried between adjacent chunks.
	Overlap int
	// RespectSentences prefers sentence boundaries over fixed strides.
	RespectSentences bool
	// OverlapDivisor converts the character overlap budget into a word
	// count (Overlap / OverlapDivisor words). Zero means the default of 10.
	OverlapDivisor int
}

var sentenceTerminals = regexp.MustCompile(`[.!?]+`)

// Chunk splits text into ordered, size-bounded segments. In
// sentence-respecting mode a single sentence longer than Size may produce
// an oversized chunk; that is a documented property, not an error.
func Chunk(text string, opts ChunkOptions) ([]string, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("chunk size must be > 0, got %d", opts.Size)
	}
	if opts.Overlap < 0 || opts.Overlap >= opts.Size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got overlap=%d size=%d", opts.Overlap, opts.Size)
	}
	if text == "" {
		return nil, nil
	}

	if opts.RespectSentences {
		return chunkBySentence(text, opts), nil
	}
	return chunkByCharacter(text, opts), nil
}

func chunkBySentence(text string, opts ChunkOptions) []string {
	divisor := opts.OverlapDivisor
	if divisor <= 0 {
		divisor = 10
	}

	var chunks []string
	var current string

	for _, sentence := range sentenceTerminals.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if current != "" && utf8.RuneCountInString(current)+utf8.RuneCountInString(sentence) > opts.Size {
			chunks = append(chunks, strings.TrimSpace(current))
			if opts.Overlap > 0 {
				current = tailWords(current, opts.Overlap/divisor) + " " + sentence
			} else {
				current = sentence
			}
			continue
		}

		if current == "" {
			current = sentence
		} else {
			current += " " + sentence
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

// chunkByCharacter slices at a fixed stride of Size-Overlap runes. Slices
// are kept verbatim so that with Overlap=0 the concatenation of all chunks
// reproduces the input exactly; whitespace-only slices are dropped.
func chunkByCharacter(text string, opts ChunkOptions) []string {
	runes := []rune(text)
	stride := opts.Size - opts.Overlap

	var chunks []string
	for i := 0; i < len(runes); i += stride {
		end := i + opts.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[i:end])
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

func tailWords(text string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}

// ChunkDocument splits a cleaned document into ChunkDocuments carrying
// chunk ordering metadata. Zero chunks is a valid outcome for empty content.
func ChunkDocument(doc document.CleanedDocument, opts ChunkOptions) ([]document.ChunkDocument, error) {
	chunks, err := Chunk(doc.Content, opts)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", doc.URL, err)
	}

	out := make([]document.ChunkDocument, 0, len(chunks))
	for i, chunk := range chunks {
		// Parent metadata first; the ordering fields below must win on a
		// key collision.
		meta := make(map[string]any, len(doc.Metadata)+3)
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		meta["is_chunk"] = true
		meta["chunk_index"] = i
		meta["total_chunks"] = len(chunks)
		out = append(out, document.ChunkDocument{
			ParentURL:   doc.URL,
			ChunkIndex:  i,
			TotalChunks: len(chunks),
			Content:     chunk,
			Metadata:    meta,
		})
	}
	return out, nil
}
