package classify

import (
	"regexp"

	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
)

// ArticleMarker matches "ARTÍCULO 5.-" style legal section headers,
// case-insensitive, with optional ordinal sign.
var ArticleMarker = regexp.MustCompile(`(?i)ART[ÍI]CULO\s+\d+[º°]?\s*\.?\s*-`)

// SelectStrategy picks the chunking strategy for a document, in priority
// order: small documents stay whole to preserve full context, legal texts
// with recurring article markers split by article, everything else falls
// back to paragraph packing.
func SelectStrategy(pageCount int, text string) docModel.ChunkStrategy {
	if pageCount <= config.SmallDocumentMaxPages {
		return docModel.StrategyWhole
	}
	if len(ArticleMarker.FindAllStringIndex(text, 2)) >= 2 {
		return docModel.StrategyByArticle
	}
	return docModel.StrategySemanticParagraph
}
