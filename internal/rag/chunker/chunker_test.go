package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
)

func testOptions() Options {
	return Options{
		ArticleMaxSize:   1000,
		ArticleOverlap:   200,
		ParagraphMaxSize: 1500,
		ParagraphOverlap: 200,
	}
}

func TestSplitWholeKeepsSingleChunk(t *testing.T) {
	text := "Requisitos para licencia de funcionamiento.\n\nPresentar solicitud y pagar la tasa."

	pieces := Split(text, docModel.StrategyWhole, testOptions())

	if len(pieces) != 1 {
		t.Fatalf("Chunk count got %d, want 1", len(pieces))
	}
	if pieces[0].Text != text {
		t.Errorf("Whole chunk must carry the full text unchanged")
	}
	if pieces[0].Section != "" {
		t.Errorf("Whole chunk must be unlabeled, got %q", pieces[0].Section)
	}
}

func TestSplitEmptyTextReturnsNothing(t *testing.T) {
	if pieces := Split("   \n\n  ", docModel.StrategyWhole, testOptions()); pieces != nil {
		t.Errorf("Blank input got %d chunks, want none", len(pieces))
	}
}

func TestSplitByArticleLabelsEverySegment(t *testing.T) {
	preamble := "ORDENANZA MUNICIPAL N 123\n\nDisposiciones sobre el comercio ambulatorio."
	articles := []string{
		"ARTÍCULO 1.- Apruebese el reglamento de comercio ambulatorio.",
		"ARTÍCULO 2.- La licencia tiene vigencia de un año calendario.",
		"ARTÍCULO 3.- Las infracciones se sancionan conforme al cuadro de multas.",
	}
	text := preamble + "\n\n" + strings.Join(articles, "\n\n")

	pieces := Split(text, docModel.StrategyByArticle, testOptions())

	if len(pieces) != 4 {
		t.Fatalf("Chunk count got %d, want 4 (preamble + 3 articles)", len(pieces))
	}
	if pieces[0].Section != "" {
		t.Errorf("Preamble chunk must be unlabeled, got %q", pieces[0].Section)
	}
	if !strings.Contains(pieces[0].Text, "Disposiciones") {
		t.Errorf("Preamble text lost: %q", pieces[0].Text)
	}

	wantLabels := []string{"ARTÍCULO 1.-", "ARTÍCULO 2.-", "ARTÍCULO 3.-"}
	for i, want := range wantLabels {
		got := pieces[i+1]
		if got.Section != want {
			t.Errorf("Section label got %q, want %q", got.Section, want)
		}
		if got.Text != articles[i] {
			t.Errorf("Article text got %q, want %q", got.Text, articles[i])
		}
	}
}

func TestSplitByArticleSubdividesOversizedSegment(t *testing.T) {
	longBody := strings.Repeat("El solicitante debe cumplir los requisitos establecidos. ", 40)
	text := "ARTÍCULO 1.- Texto corto.\n\n" +
		"ARTÍCULO 2.- " + longBody + "\n\n" + longBody

	opts := testOptions()
	pieces := Split(text, docModel.StrategyByArticle, opts)

	if len(pieces) < 3 {
		t.Fatalf("Oversized article must be subdivided, got %d chunks", len(pieces))
	}
	for _, p := range pieces[1:] {
		if p.Section != "ARTÍCULO 2.-" {
			t.Errorf("Sub-chunk label got %q, want ARTÍCULO 2.-", p.Section)
		}
	}
}

func TestSplitOrderMatchesSourceOrder(t *testing.T) {
	paragraphs := []string{
		"Primer paso del tramite.",
		"Segundo paso del tramite.",
		"Tercer paso del tramite.",
		"Cuarto paso del tramite.",
	}
	text := strings.Join(paragraphs, "\n\n")

	pieces := Split(text, docModel.StrategySemanticParagraph, testOptions())

	joined := ""
	for _, p := range pieces {
		joined += p.Text + "\n\n"
	}
	lastIndex := -1
	for _, paragraph := range paragraphs {
		idx := strings.Index(joined, paragraph)
		if idx < 0 {
			t.Fatalf("Paragraph dropped: %q", paragraph)
		}
		if idx < lastIndex {
			t.Errorf("Paragraph out of order: %q", paragraph)
		}
		lastIndex = idx
	}
}

func TestSemanticSplitReconstructsInput(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 10; i++ {
		paragraphs = append(paragraphs, strings.Repeat("palabra ", 50)+"final.")
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := semanticSplit(text, 1500, 200)

	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks for %d chars, got %d", len(text), len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 1500 {
			t.Errorf("Chunk %d exceeds max size: %d chars", i, len(c))
		}
	}
	// no paragraph is oversized here so joining the chunks back with the
	// paragraph separator must give back the exact input
	if got := strings.Join(chunks, "\n\n"); got != text {
		t.Errorf("Reconstruction mismatch: got %d chars, want %d", len(got), len(text))
	}
}

func TestHardSplitCarriesOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 250) // 2500 chars, no paragraph breaks
	const maxSize, overlap = 1000, 200

	chunks := hardSplit(text, maxSize, overlap)

	if len(chunks) != 3 {
		t.Fatalf("Chunk count got %d, want 3", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-overlap:]
		if !strings.HasPrefix(chunks[i], prevTail) {
			t.Errorf("Chunk %d does not start with previous chunk's overlap", i)
		}
	}

	// dropping the overlap prefix of each continuation reconstructs the input
	rebuilt := chunks[0]
	for _, c := range chunks[1:] {
		rebuilt += c[overlap:]
	}
	if rebuilt != text {
		t.Errorf("Reconstruction mismatch: got %d chars, want %d", len(rebuilt), len(text))
	}
}

func TestHardSplitKeepsMultiByteRunesIntact(t *testing.T) {
	// the ó sits exactly on the first window boundary
	text := strings.Repeat("a", 1499) + "ó" + strings.Repeat("b", 1000)

	chunks := semanticSplit(text, 1500, 200)

	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks for %d runes, got %d", len([]rune(text)), len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("Chunk %d is not valid UTF-8: %q...", i, c[:4])
		}
		if n := utf8.RuneCountInString(c); n > 1500 {
			t.Errorf("Chunk %d exceeds max size: %d runes", i, n)
		}
	}
	if !strings.HasSuffix(chunks[0], "ó") {
		t.Error("First window must end with the whole accented rune, not half of it")
	}
	if !strings.Contains(chunks[1], "ó") {
		t.Error("Overlap carried into the continuation must keep the accented rune intact")
	}
}

func TestHardSplitGuardsDegenerateOverlap(t *testing.T) {
	text := strings.Repeat("x", 500)

	chunks := hardSplit(text, 100, 100)

	if len(chunks) == 0 {
		t.Fatal("No chunks produced")
	}
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("Chunk %d exceeds max size: %d", i, len(c))
		}
	}
}
