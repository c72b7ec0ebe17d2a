package document

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChunkSize bounds chunk length when no explicit size is configured.
const DefaultMaxChunkSize = 1000

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// SplitChunks splits text into sentence-respecting chunks of at most maxSize
// characters. Sentences are greedily accumulated and joined with ". "; a chunk
// is flushed when appending the next sentence would exceed maxSize. A single
// sentence longer than maxSize becomes its own oversized chunk — input-size
// overflow, not an error. The function is deterministic.
func SplitChunks(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = DefaultMaxChunkSize
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0 // characters, not bytes; CJK text must fill chunks like ASCII

	for _, sentence := range sentenceEnd.Split(text, -1) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}

		if currentLen > 0 && currentLen+utf8.RuneCountInString(sentence) > maxSize {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
			current.WriteString(sentence)
			currentLen = utf8.RuneCountInString(sentence)
			continue
		}

		if currentLen > 0 {
			current.WriteString(". ")
			currentLen += 2
		}
		current.WriteString(sentence)
		currentLen += utf8.RuneCountInString(sentence)
	}

	if strings.TrimSpace(current.String()) != "" {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	return chunks
}
