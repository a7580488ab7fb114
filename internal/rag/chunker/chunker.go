package chunker

import (
	"strings"

	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
	"github.com/rvaldezc/muniRAG/internal/rag/classify"
)

// Piece is one chunk of source text with its optional section label.
type Piece struct {
	Text    string
	Section string
}

type Options struct {
	ArticleMaxSize   int
	ArticleOverlap   int
	ParagraphMaxSize int
	ParagraphOverlap int
}

func DefaultOptions() Options {
	return Options{
		ArticleMaxSize:   config.ArticleChunkMaxSize,
		ArticleOverlap:   config.ArticleChunkOverlap,
		ParagraphMaxSize: config.ParagraphChunkMaxSize,
		ParagraphOverlap: config.ParagraphChunkOverlap,
	}
}

// Split produces the ordered chunk sequence for a document. Chunk order
// always matches source order, and concatenating chunk texts (minus the
// configured overlap carried into hard-split continuations) reconstructs
// the input.
func Split(text string, strategy docModel.ChunkStrategy, opts Options) []Piece {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	switch strategy {
	case docModel.StrategyWhole:
		return []Piece{{Text: text}}
	case docModel.StrategyByArticle:
		return byArticle(text, opts)
	case docModel.StrategySemanticParagraph:
		return unlabeled(semanticSplit(text, opts.ParagraphMaxSize, opts.ParagraphOverlap))
	}
	return unlabeled(semanticSplit(text, opts.ParagraphMaxSize, opts.ParagraphOverlap))
}

func unlabeled(texts []string) []Piece {
	pieces := make([]Piece, 0, len(texts))
	for _, t := range texts {
		pieces = append(pieces, Piece{Text: t})
	}
	return pieces
}

// byArticle splits at each legal article marker. Text before the first
// marker is kept as an unlabeled leading chunk so nothing is dropped.
// Oversized article segments are subdivided with the paragraph method,
// every sub-chunk keeping the article's label.
func byArticle(text string, opts Options) []Piece {
	locs := classify.ArticleMarker.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return unlabeled(semanticSplit(text, opts.ParagraphMaxSize, opts.ParagraphOverlap))
	}

	var pieces []Piece
	if preamble := strings.TrimSpace(text[:locs[0][0]]); preamble != "" {
		pieces = append(pieces, unlabeled(semanticSplit(preamble, opts.ArticleMaxSize, opts.ArticleOverlap))...)
	}

	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := strings.TrimSpace(text[loc[0]:end])
		if segment == "" {
			continue
		}
		label := strings.TrimSpace(text[loc[0]:loc[1]])

		if len(segment) > opts.ArticleMaxSize {
			for _, sub := range semanticSplit(segment, opts.ArticleMaxSize, opts.ArticleOverlap) {
				pieces = append(pieces, Piece{Text: sub, Section: label})
			}
		} else {
			pieces = append(pieces, Piece{Text: segment, Section: label})
		}
	}
	return pieces
}
