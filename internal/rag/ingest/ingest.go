package ingest

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rvaldezc/muniRAG/internal/adapter/utils"
	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
	"github.com/rvaldezc/muniRAG/internal/metrics"
	"github.com/rvaldezc/muniRAG/internal/rag/chunker"
	"github.com/rvaldezc/muniRAG/internal/rag/classify"
	"github.com/rvaldezc/muniRAG/internal/rag/embedding"
	"github.com/rvaldezc/muniRAG/internal/rag/vectorDB"
	"github.com/rvaldezc/muniRAG/pkg/logger_i"
)

var logger = logger_i.NewLogger("Document Ingestion")

const upsertBatchSize = 100

// Pipeline runs the staged ingestion flow: extract, fingerprint, dedup
// check, classify, chunk, embed, persist. Any stage failure after the
// Document record exists rolls back written vectors and marks the Document
// failed, so partial chunk sets are never queryable.
type Pipeline struct {
	registry docModel.DocRegistry
	vector   vectorDB.DataProcessor
	embedder embedding.Embedder
}

func NewPipeline(registry docModel.DocRegistry, vector vectorDB.DataProcessor, embedder embedding.Embedder) *Pipeline {
	return &Pipeline{
		registry: registry,
		vector:   vector,
		embedder: embedder,
	}
}

type Request struct {
	Path     string
	Filename string
	Category string
}

func (p *Pipeline) ProcessDocument(ctx context.Context, req Request) docModel.IngestResult {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "filename", req.Filename)

	raw, err := os.ReadFile(req.Path)
	if err != nil {
		log.Error("Error reading upload", "error", err)
		return failResult("", docModel.ErrExtractionFailure.Error())
	}
	fingerprint := Fingerprint(raw)

	// Dedup short-circuit: only a processed prior ingest blocks, a failed
	// attempt with the same fingerprint may retry.
	if existing, found := p.registry.FindByFingerprint(ctx, fingerprint); found && existing.Status == docModel.DocStatusProcessed {
		log.Info("Duplicate document skipped", "docId", existing.Id)
		if err := p.registry.RecordDuplicateSkip(ctx); err != nil {
			log.Error("Error recording duplicate skip", "error", err)
		}
		metrics.CaptureIngestOutcome(string(docModel.OutcomeSkippedDuplicate))
		return docModel.IngestResult{
			Outcome:    docModel.OutcomeSkippedDuplicate,
			DocumentId: existing.Id,
		}
	}

	extractStart := time.Now()
	text, pages, err := extractText(req.Path)
	metrics.CaptureExecutionMetrics("text_extraction", time.Since(extractStart))
	if err != nil {
		log.Error("Error extracting document content", "error", err)
		return failResult("", err.Error())
	}

	text = cleanText(text)
	if text == "" {
		log.Error("Document has no extractable text")
		return failResult("", docModel.ErrEmptyDocument.Error())
	}

	info := classify.DetectDocInfo(req.Filename, text)
	category := req.Category
	if category == "" {
		category = info.Category
	}

	strategy := classify.SelectStrategy(pages, text)
	log.Debug("Chunking strategy selected", "strategy", strategy, "pages", pages, "docType", info.DocType)

	pieces := chunker.Split(text, strategy, chunker.DefaultOptions())
	if len(pieces) == 0 {
		log.Error("Chunking produced no chunks")
		return failResult("", docModel.ErrEmptyDocument.Error())
	}

	doc := docModel.Document{
		Id:          utils.GetNewUUID(),
		Filename:    req.Filename,
		Category:    category,
		DocType:     info.DocType,
		Fingerprint: fingerprint,
		Pages:       pages,
		ChunkCount:  len(pieces),
		Status:      docModel.DocStatusPending,
		IngestedAt:  time.Now(),
	}
	if err := p.registry.SaveDocument(ctx, doc); err != nil {
		log.Error("Error saving document record", "error", err)
		return failResult("", err.Error())
	}

	chunks := buildChunks(doc, pieces)

	if err := p.embedAndPersist(ctx, log, doc, chunks); err != nil {
		p.rollback(ctx, log, doc, err.Error())
		metrics.CaptureIngestOutcome(string(docModel.OutcomeFailed))
		return failResult(doc.Id, err.Error())
	}

	// The processed mark is the commit point: if it cannot be written the
	// record would stay pending and the fingerprint would not block a
	// re-upload, so the vectors must go too.
	if err := p.registry.MarkProcessed(ctx, doc); err != nil {
		log.Error("Error marking document processed", "error", err)
		p.rollback(ctx, log, doc, err.Error())
		metrics.CaptureIngestOutcome(string(docModel.OutcomeFailed))
		return failResult(doc.Id, err.Error())
	}
	metrics.CaptureIngestOutcome(string(docModel.OutcomeProcessed))
	metrics.CaptureChunksStored(len(chunks))
	log.Info("Document processed", "docId", doc.Id, "chunks", len(chunks), "strategy", strategy)

	return docModel.IngestResult{
		Outcome:    docModel.OutcomeProcessed,
		DocumentId: doc.Id,
		ChunkCount: len(chunks),
	}
}

// ProcessBatch ingests documents independently: one document's failure never
// aborts its siblings, and cancellation abandons remaining documents without
// touching already-committed ones.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string, category string) []docModel.IngestResult {
	results := make([]docModel.IngestResult, 0, len(paths))
	for _, path := range paths {
		select {
		case <-ctx.Done():
			results = append(results, failResult("", ctx.Err().Error()))
			continue
		default:
		}
		results = append(results, p.ProcessDocument(ctx, Request{
			Path:     path,
			Filename: baseName(path),
			Category: category,
		}))
	}
	return results
}

func (p *Pipeline) embedAndPersist(ctx context.Context, log *logger_i.Logger, doc docModel.Document, chunks []docModel.DocChunk) error {
	if err := p.vector.EnsureCollection(ctx); err != nil {
		return errors.Join(docModel.ErrStoreFailure, err)
	}

	for i := 0; i < len(chunks); i += upsertBatchSize {
		end := i + upsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		currentBatch := chunks[i:end]

		texts := make([]string, 0, len(currentBatch))
		for _, c := range currentBatch {
			texts = append(texts, c.Text)
		}

		embedStart := time.Now()
		vectors, err := p.embedder.EmbedBatch(ctx, texts)
		metrics.CaptureExecutionMetrics("embedding", time.Since(embedStart))
		if err != nil {
			log.Error("Embedding batch failed", "error", err)
			return errors.Join(docModel.ErrEmbeddingFailure, err)
		}

		if err := p.vector.UpsertChunks(ctx, currentBatch, vectors); err != nil {
			log.Error("Vector upsert failed", "error", err)
			return errors.Join(docModel.ErrStoreFailure, err)
		}
	}
	return nil
}

// rollback removes any vectors written for the document and records the
// failure so the fingerprint does not block a retry.
func (p *Pipeline) rollback(ctx context.Context, log *logger_i.Logger, doc docModel.Document, reason string) {
	if err := p.vector.DeleteByDocument(ctx, doc.Id); err != nil {
		log.Error("Rollback cleanup failed", "docId", doc.Id, "error", err)
	}
	if err := p.registry.MarkFailed(ctx, doc, reason); err != nil {
		log.Error("Error marking document failed", "docId", doc.Id, "error", err)
	}
}

func buildChunks(doc docModel.Document, pieces []chunker.Piece) []docModel.DocChunk {
	chunks := make([]docModel.DocChunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, docModel.DocChunk{
			Doc:       doc,
			ChunkId:   utils.GetNewUUID(),
			Seq:       i,
			Text:      piece.Text,
			CharLen:   len(piece.Text),
			Section:   piece.Section,
			CreatedAt: time.Now(),
		})
	}
	return chunks
}

func failResult(docId string, reason string) docModel.IngestResult {
	return docModel.IngestResult{
		Outcome:    docModel.OutcomeFailed,
		DocumentId: docId,
		Reason:     reason,
	}
}
