package docModel

import (
	"context"
	"errors"
	"time"
)

type ChunkStrategy string

// Closed set: every document resolves to exactly one of these.
const (
	StrategyWhole             ChunkStrategy = "WHOLE"
	StrategyByArticle         ChunkStrategy = "BY_ARTICLE"
	StrategySemanticParagraph ChunkStrategy = "SEMANTIC_PARAGRAPH"
)

type DocStatus string

const (
	DocStatusPending   DocStatus = "pending"
	DocStatusProcessed DocStatus = "processed"
	DocStatusFailed    DocStatus = "failed"
)

type IngestOutcome string

const (
	OutcomeProcessed        IngestOutcome = "processed"
	OutcomeSkippedDuplicate IngestOutcome = "skipped-duplicate"
	OutcomeFailed           IngestOutcome = "failed"
)

var (
	ErrExtractionFailure = errors.New("document text extraction failed")
	ErrEmptyDocument     = errors.New("document has no extractable text")
	ErrEmbeddingFailure  = errors.New("embedding generation failed")
	ErrStoreFailure      = errors.New("vector store operation failed")
	ErrRateLimited       = errors.New("external rate limit exceeded")
)

type Document struct {
	Id          string    `json:"id"`
	Filename    string    `json:"filename"`
	Category    string    `json:"category"`
	DocType     string    `json:"doc_type"`
	Fingerprint string    `json:"fingerprint"`
	Pages       int       `json:"pages"`
	ChunkCount  int       `json:"chunk_count"`
	Status      DocStatus `json:"status"`
	FailReason  string    `json:"fail_reason,omitempty"`
	IngestedAt  time.Time `json:"ingested_at"`
}

// DocChunk is one retrieval unit of a document. A chunk is only ever
// persisted together with its embedding vector.
type DocChunk struct {
	Doc       Document
	ChunkId   string `json:"chunk_id"`
	Seq       int    `json:"seq"` //0-based, contiguous within the document
	Text      string `json:"text"`
	CharLen   int    `json:"char_len"`
	Section   string `json:"section,omitempty"` //article marker for legal chunks
	CreatedAt time.Time
}

// IngestResult is the per-document outcome of an ingestion run.
type IngestResult struct {
	Outcome    IngestOutcome `json:"outcome"`
	DocumentId string        `json:"document_id,omitempty"`
	ChunkCount int           `json:"chunk_count,omitempty"`
	Reason     string        `json:"reason,omitempty"`
}

type Stats struct {
	DocumentsProcessed int64            `json:"documents_processed"`
	ChunksStored       int64            `json:"chunks_stored"`
	DuplicatesSkipped  int64            `json:"duplicates_skipped"`
	TotalPages         int64            `json:"total_pages"`
	ByCategory         map[string]int64 `json:"by_category"`
	ByDocType          map[string]int64 `json:"by_doc_type"`
}

// DocRegistry tracks documents by content fingerprint. Dedup rule: a
// fingerprint with a processed Document blocks re-ingestion, a failed
// prior attempt does not.
type DocRegistry interface {
	FindByFingerprint(ctx context.Context, fingerprint string) (Document, bool)
	SaveDocument(ctx context.Context, doc Document) error
	MarkProcessed(ctx context.Context, doc Document) error
	MarkFailed(ctx context.Context, doc Document, reason string) error
	RecordDuplicateSkip(ctx context.Context) error
	GetStats(ctx context.Context) (Stats, error)
}
