package store

import (
	"context"
	"encoding/json"

	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/data/redisStore"
	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
	"github.com/rvaldezc/muniRAG/pkg/logger_i"
)

const (
	fingerprintKeyPrefix = "fp:"

	statDocsProcessed = "stats:documents_processed"
	statChunksStored  = "stats:chunks_stored"
	statDupesSkipped  = "stats:duplicates_skipped"
	statTotalPages    = "stats:total_pages"
	statByCategory    = "stats:by_category"
	statByDocType     = "stats:by_doc_type"
)

// RedisDocRegistry persists Document records keyed by content fingerprint,
// plus the aggregate counters behind the stats endpoint.
type RedisDocRegistry struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocRegistry(ctx context.Context) *RedisDocRegistry {
	internal := redisStore.GetRedisStore(ctx, config.RedisDocRegistry)
	if internal == nil {
		return nil
	}
	return &RedisDocRegistry{
		store:  internal,
		logger: logger_i.NewLogger("DocRegistry"),
	}
}

func (r *RedisDocRegistry) FindByFingerprint(ctx context.Context, fingerprint string) (docModel.Document, bool) {
	var doc docModel.Document
	val, err := r.store.Get(ctx, fingerprintKeyPrefix+fingerprint)
	if r.store.IsNil(err) {
		return doc, false
	} else if err != nil {
		r.logger.Error("Error reading document record", "error", err)
		return doc, false
	}
	if err = json.Unmarshal([]byte(val), &doc); err != nil {
		return doc, false
	}
	return doc, true
}

func (r *RedisDocRegistry) SaveDocument(ctx context.Context, doc docModel.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	// Document records have no TTL, the fingerprint index must outlive jobs.
	return r.store.Set(ctx, fingerprintKeyPrefix+doc.Fingerprint, data, 0)
}

func (r *RedisDocRegistry) MarkProcessed(ctx context.Context, doc docModel.Document) error {
	doc.Status = docModel.DocStatusProcessed
	doc.FailReason = ""
	if err := r.SaveDocument(ctx, doc); err != nil {
		return err
	}

	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "docId", doc.Id)
	if err := r.store.IncrBy(ctx, statDocsProcessed, 1); err != nil {
		log.Error("stats counter update failed", "error", err)
	}
	if err := r.store.IncrBy(ctx, statChunksStored, int64(doc.ChunkCount)); err != nil {
		log.Error("stats counter update failed", "error", err)
	}
	if err := r.store.IncrBy(ctx, statTotalPages, int64(doc.Pages)); err != nil {
		log.Error("stats counter update failed", "error", err)
	}
	if err := r.store.HashIncrBy(ctx, statByCategory, doc.Category, 1); err != nil {
		log.Error("stats counter update failed", "error", err)
	}
	if err := r.store.HashIncrBy(ctx, statByDocType, doc.DocType, 1); err != nil {
		log.Error("stats counter update failed", "error", err)
	}
	return nil
}

func (r *RedisDocRegistry) MarkFailed(ctx context.Context, doc docModel.Document, reason string) error {
	doc.Status = docModel.DocStatusFailed
	doc.FailReason = reason
	return r.SaveDocument(ctx, doc)
}

func (r *RedisDocRegistry) RecordDuplicateSkip(ctx context.Context) error {
	return r.store.IncrBy(ctx, statDupesSkipped, 1)
}

func (r *RedisDocRegistry) GetStats(ctx context.Context) (docModel.Stats, error) {
	var stats docModel.Stats
	var err error

	if stats.DocumentsProcessed, err = r.store.GetInt(ctx, statDocsProcessed); err != nil {
		return stats, err
	}
	if stats.ChunksStored, err = r.store.GetInt(ctx, statChunksStored); err != nil {
		return stats, err
	}
	if stats.DuplicatesSkipped, err = r.store.GetInt(ctx, statDupesSkipped); err != nil {
		return stats, err
	}
	if stats.TotalPages, err = r.store.GetInt(ctx, statTotalPages); err != nil {
		return stats, err
	}
	if stats.ByCategory, err = r.store.HashGetAllInt(ctx, statByCategory); err != nil {
		return stats, err
	}
	if stats.ByDocType, err = r.store.HashGetAllInt(ctx, statByDocType); err != nil {
		return stats, err
	}
	return stats, nil
}

func TestDocRegistry(store *redisStore.Store) *RedisDocRegistry {
	return &RedisDocRegistry{
		store:  store,
		logger: logger_i.NewLogger("test registry"),
	}
}
