package chunker

import (
	"regexp"
	"strings"
)

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

// semanticSplit packs consecutive paragraphs greedily into chunks of at most
// maxSize characters without ever cutting a paragraph, unless one paragraph
// alone exceeds maxSize, in which case it is hard-split with overlap carried
// into the continuation chunk.
func semanticSplit(text string, maxSize int, overlap int) []string {
	var paragraphs []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentSize := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = nil
			currentSize = 0
		}
	}

	for _, paragraph := range paragraphs {
		if len(paragraph) > maxSize {
			flush()
			chunks = append(chunks, hardSplit(paragraph, maxSize, overlap)...)
			continue
		}

		// +2 for the paragraph separator re-inserted on join
		if currentSize+len(paragraph)+2 > maxSize && len(current) > 0 {
			flush()
		}
		current = append(current, paragraph)
		currentSize += len(paragraph) + 2
	}
	flush()

	return chunks
}

// hardSplit cuts text into windows of maxSize characters, each continuation
// starting overlap characters before the previous window's end. Windows are
// measured in runes so a cut can never land inside a multi-byte character.
func hardSplit(text string, maxSize int, overlap int) []string {
	if overlap >= maxSize {
		overlap = maxSize / 4
	}

	runes := []rune(text)
	var out []string
	start := 0
	for {
		end := start + maxSize
		if end >= len(runes) {
			out = append(out, string(runes[start:]))
			return out
		}
		out = append(out, string(runes[start:end]))
		start = end - overlap
	}
}
