package rag_test

import (
	"context"

	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
	"github.com/rvaldezc/muniRAG/internal/rag/vectorDB"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnQuery            func(ctx context.Context, vector []float32, limit uint64, category string) ([]vectorDB.ScoredChunk, error)
	OnUpsertChunks     func(ctx context.Context, chunks []docModel.DocChunk, vectors [][]float32) error
	OnDeleteByDocument func(ctx context.Context, documentId string) error
	OnCountChunks      func(ctx context.Context) (uint64, error)
}

func (m *MockVectorDB) EnsureCollection(ctx context.Context) error { return nil }

func (m *MockVectorDB) UpsertChunks(ctx context.Context, chunks []docModel.DocChunk, vectors [][]float32) error {
	if m.OnUpsertChunks != nil {
		return m.OnUpsertChunks(ctx, chunks, vectors)
	}
	return nil
}

func (m *MockVectorDB) Query(ctx context.Context, vector []float32, limit uint64, category string) ([]vectorDB.ScoredChunk, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, vector, limit, category)
	}
	return nil, nil
}

func (m *MockVectorDB) DeleteByDocument(ctx context.Context, documentId string) error {
	if m.OnDeleteByDocument != nil {
		return m.OnDeleteByDocument(ctx, documentId)
	}
	return nil
}

func (m *MockVectorDB) CountChunks(ctx context.Context) (uint64, error) {
	if m.OnCountChunks != nil {
		return m.OnCountChunks(ctx)
	}
	return 0, nil
}

type MockEmbedder struct {
	OnEmbedQuery func(ctx context.Context, text string) ([]float32, error)
	OnEmbedBatch func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1}, nil
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if m.OnEmbedQuery != nil {
		return m.OnEmbedQuery(ctx, text)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnEmbedBatch != nil {
		return m.OnEmbedBatch(ctx, texts)
	}
	// Return dummy vectors matching chunk size
	return make([][]float32, len(texts)), nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, query string, contextBlock string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, query string, contextBlock string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, query, contextBlock)
	}
	return "mocked llm response", nil
}

// MockRegistry implements docModel.DocRegistry
type MockRegistry struct {
	OnGetStats func(ctx context.Context) (docModel.Stats, error)
}

func (m *MockRegistry) FindByFingerprint(ctx context.Context, fingerprint string) (docModel.Document, bool) {
	return docModel.Document{}, false
}

func (m *MockRegistry) SaveDocument(ctx context.Context, doc docModel.Document) error { return nil }

func (m *MockRegistry) MarkProcessed(ctx context.Context, doc docModel.Document) error { return nil }

func (m *MockRegistry) MarkFailed(ctx context.Context, doc docModel.Document, reason string) error {
	return nil
}

func (m *MockRegistry) RecordDuplicateSkip(ctx context.Context) error { return nil }

func (m *MockRegistry) GetStats(ctx context.Context) (docModel.Stats, error) {
	if m.OnGetStats != nil {
		return m.OnGetStats(ctx)
	}
	return docModel.Stats{}, nil
}
