package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lu4p/cat"
	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
)

type docKind string

const (
	kindPDF     docKind = "PDF"
	kindDocLike docKind = "DOC"
	kindUnknown docKind = "UNKNOWN"
)

func getDocKind(docPath string) docKind {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return kindPDF
	case ".docx", ".txt", ".rtf", ".odt":
		return kindDocLike
	default:
		return kindUnknown
	}
}

func baseName(path string) string {
	return filepath.Base(path)
}

// extractText pulls plain text and a page count out of the stored upload.
func extractText(path string) (string, int, error) {
	switch getDocKind(path) {
	case kindPDF:
		return extractPDF(path)
	case kindDocLike:
		text, err := cat.File(path)
		if err != nil {
			return "", 0, fmt.Errorf("%w: %v", docModel.ErrExtractionFailure, err)
		}
		return text, 1, nil
	default:
		return "", 0, fmt.Errorf("%w: unsupported file type %s", docModel.ErrExtractionFailure, filepath.Ext(path))
	}
}

var (
	hyphenBreak  = regexp.MustCompile(`(\w+)-\n(\w+)`)
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	blankRun     = regexp.MustCompile(`\n[ \t]*\n[\s]*`)
)

// cleanText fixes words hyphenated across line breaks and normalizes
// whitespace while preserving paragraph boundaries for the chunker.
func cleanText(text string) string {
	text = hyphenBreak.ReplaceAllString(text, "$1$2")
	text = blankRun.ReplaceAllString(text, "\n\n")
	text = horizontalWS.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
