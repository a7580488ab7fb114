package vectorDB

import (
	"context"

	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
)

// ScoredChunk is one nearest-neighbor hit with its cosine similarity score.
type ScoredChunk struct {
	ChunkId      string
	DocumentId   string
	DocumentName string
	Category     string
	Section      string
	Seq          int
	Text         string
	Score        float32
}

type DataProcessor interface {
	EnsureCollection(ctx context.Context) error
	// UpsertChunks writes chunks and their vectors together, one point per
	// chunk. len(chunks) must equal len(vectors).
	UpsertChunks(ctx context.Context, chunks []docModel.DocChunk, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, limit uint64, category string) ([]ScoredChunk, error)
	DeleteByDocument(ctx context.Context, documentId string) error
	CountChunks(ctx context.Context) (uint64, error)
}
