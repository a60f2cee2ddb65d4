package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits long resumes into pieces small enough to summarize one
// completion call at a time.
type TextChunker interface {
	Chunk(text string, maxChunkSize, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// Chunk packs paragraphs into chunks of at most maxChunkSize runes. A
// paragraph that alone exceeds the limit is packed sentence by sentence, and
// a sentence that still exceeds it is cut hard. Each new chunk starts with
// the last overlap runes of the previous one.
func (tc *textChunker) Chunk(text string, maxChunkSize, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	// carried overlap plus separator plus one piece must fit in a chunk
	pieceLimit := maxChunkSize
	if overlap > 0 {
		pieceLimit = maxChunkSize - overlap - 2
	}
	if pieceLimit < 1 {
		overlap = 0
		pieceLimit = maxChunkSize
	}

	var pieces []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(para) <= pieceLimit {
			pieces = append(pieces, para)
			continue
		}
		for _, sentence := range splitIntoSentences(para) {
			pieces = append(pieces, hardSplit(sentence, pieceLimit)...)
		}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0
	// overlapOnly is set while current holds nothing but carried-over text.
	overlapOnly := false

	flush := func() {
		chunk := current.String()
		chunks = append(chunks, chunk)
		current.Reset()
		currentLen = 0
		overlapOnly = false
		if tail := lastNRunes(chunk, overlap); tail != "" {
			current.WriteString(tail)
			currentLen = utf8.RuneCountInString(tail)
			overlapOnly = true
		}
	}

	for _, piece := range pieces {
		pieceLen := utf8.RuneCountInString(piece)
		if currentLen > 0 && !overlapOnly && currentLen+pieceLen+2 > maxChunkSize {
			flush()
		}
		if currentLen > 0 {
			current.WriteString("\n\n")
			currentLen += 2
		}
		current.WriteString(piece)
		currentLen += pieceLen
		overlapOnly = false
	}

	if currentLen > 0 && !overlapOnly {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func splitIntoSentences(text string) []string {
	var result []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				result = append(result, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		result = append(result, s)
	}
	return result
}

func hardSplit(text string, size int) []string {
	if size <= 0 {
		size = 1
	}
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}
	var out []string
	for len(runes) > 0 {
		n := size
		if len(runes) < n {
			n = len(runes)
		}
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return out
}

func lastNRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
