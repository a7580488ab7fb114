package store

import (
	"context"
	"sync"

	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
)

// InMemoryDocRegistry is the fallback registry when Redis is offline.
// Dedup state does not survive a restart, acceptable for local runs only.
type InMemoryDocRegistry struct {
	mu    sync.RWMutex
	byFp  map[string]docModel.Document
	stats docModel.Stats
}

func InitInMemoryDocRegistry() *InMemoryDocRegistry {
	return &InMemoryDocRegistry{
		byFp: make(map[string]docModel.Document),
		stats: docModel.Stats{
			ByCategory: make(map[string]int64),
			ByDocType:  make(map[string]int64),
		},
	}
}

func (r *InMemoryDocRegistry) FindByFingerprint(ctx context.Context, fingerprint string) (docModel.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, found := r.byFp[fingerprint]
	return doc, found
}

func (r *InMemoryDocRegistry) SaveDocument(ctx context.Context, doc docModel.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byFp[doc.Fingerprint] = doc
	return nil
}

func (r *InMemoryDocRegistry) MarkProcessed(ctx context.Context, doc docModel.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.Status = docModel.DocStatusProcessed
	doc.FailReason = ""
	r.byFp[doc.Fingerprint] = doc

	r.stats.DocumentsProcessed++
	r.stats.ChunksStored += int64(doc.ChunkCount)
	r.stats.TotalPages += int64(doc.Pages)
	r.stats.ByCategory[doc.Category]++
	r.stats.ByDocType[doc.DocType]++
	return nil
}

func (r *InMemoryDocRegistry) MarkFailed(ctx context.Context, doc docModel.Document, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.Status = docModel.DocStatusFailed
	doc.FailReason = reason
	r.byFp[doc.Fingerprint] = doc
	return nil
}

func (r *InMemoryDocRegistry) RecordDuplicateSkip(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.DuplicatesSkipped++
	return nil
}

func (r *InMemoryDocRegistry) GetStats(ctx context.Context) (docModel.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.stats
	out.ByCategory = make(map[string]int64, len(r.stats.ByCategory))
	for k, v := range r.stats.ByCategory {
		out.ByCategory[k] = v
	}
	out.ByDocType = make(map[string]int64, len(r.stats.ByDocType))
	for k, v := range r.stats.ByDocType {
		out.ByDocType[k] = v
	}
	return out, nil
}
