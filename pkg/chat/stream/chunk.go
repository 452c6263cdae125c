package stream

import (
	"regexp"
	"strings"
)

var sentenceBoundaryRe = regexp.MustCompile(`[.!?]\s+|\n\n`)

// ChunkText splits text at sentence and paragraph boundaries for
// synthesized streaming. Concatenating the chunks reproduces the input
// exactly.
func ChunkText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	prev := 0
	for _, loc := range sentenceBoundaryRe.FindAllStringIndex(text, -1) {
		chunks = append(chunks, text[prev:loc[1]])
		prev = loc[1]
	}
	if prev < len(text) {
		chunks = append(chunks, text[prev:])
	}
	return chunks
}
