package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/data/redisStore"
	"github.com/rvaldezc/muniRAG/internal/data/store"
	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
	"github.com/rvaldezc/muniRAG/internal/domain/jobModel"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *redisStore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, redisStore.NewTestStore(client)
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr, internalStore := newTestStore(t)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:     jobID,
		Status: jobModel.JobStatusRunning,
		JobPayload: jobModel.JobPayload{
			IngestFileName: "ordenanza_123.pdf",
			IngestPath:     "/uploads/ordenanza_123.pdf",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		// Test Save
		err := jobStore.SaveJob(ctx, testJob)
		if err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		// Test Get
		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}

		if retrievedJob.JobPayload.IngestFileName != testJob.JobPayload.IngestFileName {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrievedJob.JobPayload.IngestFileName, testJob.JobPayload.IngestFileName)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)

		// Verify it's gone from miniredis
		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	_, internalStore := newTestStore(t)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
}

func TestRedisDocRegistry_FingerprintLifecycle(t *testing.T) {
	_, internalStore := newTestStore(t)
	registry := store.TestDocRegistry(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "registry-trace")

	doc := docModel.Document{
		Id:          "doc-1",
		Filename:    "ordenanza_123.pdf",
		Category:    "normativa",
		DocType:     "ordenanza",
		Fingerprint: "abc123fingerprint",
		Pages:       14,
		ChunkCount:  9,
		Status:      docModel.DocStatusPending,
	}

	t.Run("Unknown fingerprint is not found", func(t *testing.T) {
		if _, found := registry.FindByFingerprint(ctx, "nope"); found {
			t.Error("Expected found=false for unknown fingerprint")
		}
	})

	t.Run("Save then find by fingerprint", func(t *testing.T) {
		if err := registry.SaveDocument(ctx, doc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}
		got, found := registry.FindByFingerprint(ctx, doc.Fingerprint)
		if !found {
			t.Fatal("Document was saved but not found")
		}
		if got.Id != doc.Id || got.Status != docModel.DocStatusPending {
			t.Errorf("Retrieved document mismatch: %+v", got)
		}
	})

	t.Run("MarkProcessed updates record and counters", func(t *testing.T) {
		if err := registry.MarkProcessed(ctx, doc); err != nil {
			t.Fatalf("MarkProcessed failed: %v", err)
		}

		got, _ := registry.FindByFingerprint(ctx, doc.Fingerprint)
		if got.Status != docModel.DocStatusProcessed {
			t.Errorf("Status got %v, want processed", got.Status)
		}

		stats, err := registry.GetStats(ctx)
		if err != nil {
			t.Fatalf("GetStats failed: %v", err)
		}
		if stats.DocumentsProcessed != 1 {
			t.Errorf("DocumentsProcessed got %d, want 1", stats.DocumentsProcessed)
		}
		if stats.ChunksStored != int64(doc.ChunkCount) {
			t.Errorf("ChunksStored got %d, want %d", stats.ChunksStored, doc.ChunkCount)
		}
		if stats.TotalPages != int64(doc.Pages) {
			t.Errorf("TotalPages got %d, want %d", stats.TotalPages, doc.Pages)
		}
		if stats.ByCategory["normativa"] != 1 {
			t.Errorf("ByCategory got %v", stats.ByCategory)
		}
		if stats.ByDocType["ordenanza"] != 1 {
			t.Errorf("ByDocType got %v", stats.ByDocType)
		}
	})

	t.Run("MarkFailed keeps the fingerprint with the reason", func(t *testing.T) {
		failedDoc := doc
		failedDoc.Id = "doc-2"
		failedDoc.Fingerprint = "failed-fingerprint"

		if err := registry.MarkFailed(ctx, failedDoc, "embedding quota exhausted"); err != nil {
			t.Fatalf("MarkFailed failed: %v", err)
		}
		got, found := registry.FindByFingerprint(ctx, failedDoc.Fingerprint)
		if !found {
			t.Fatal("Failed document record must still be findable")
		}
		if got.Status != docModel.DocStatusFailed || got.FailReason == "" {
			t.Errorf("Failed record got %+v", got)
		}
	})

	t.Run("Duplicate skips accumulate", func(t *testing.T) {
		_ = registry.RecordDuplicateSkip(ctx)
		_ = registry.RecordDuplicateSkip(ctx)

		stats, err := registry.GetStats(ctx)
		if err != nil {
			t.Fatalf("GetStats failed: %v", err)
		}
		if stats.DuplicatesSkipped != 2 {
			t.Errorf("DuplicatesSkipped got %d, want 2", stats.DuplicatesSkipped)
		}
	})
}

func TestInMemoryDocRegistry_MatchesRedisBehavior(t *testing.T) {
	registry := store.InitInMemoryDocRegistry()
	ctx := context.Background()

	doc := docModel.Document{
		Id:          "mem-doc",
		Fingerprint: "mem-fingerprint",
		Category:    "comercio",
		DocType:     "formulario",
		ChunkCount:  3,
		Pages:       2,
		Status:      docModel.DocStatusPending,
	}

	if err := registry.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}
	if err := registry.MarkProcessed(ctx, doc); err != nil {
		t.Fatalf("MarkProcessed failed: %v", err)
	}

	got, found := registry.FindByFingerprint(ctx, doc.Fingerprint)
	if !found || got.Status != docModel.DocStatusProcessed {
		t.Errorf("Processed record not retrievable: found=%v doc=%+v", found, got)
	}

	stats, err := registry.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.DocumentsProcessed != 1 || stats.ChunksStored != 3 || stats.ByCategory["comercio"] != 1 {
		t.Errorf("Stats mismatch: %+v", stats)
	}
}
