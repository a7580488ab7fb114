package rag

import (
	"context"
	"time"

	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
	"github.com/rvaldezc/muniRAG/internal/domain/jobModel"
	"github.com/rvaldezc/muniRAG/internal/metrics"
	"github.com/rvaldezc/muniRAG/internal/rag/embedding"
	"github.com/rvaldezc/muniRAG/internal/rag/ingest"
	"github.com/rvaldezc/muniRAG/internal/rag/llm"
	"github.com/rvaldezc/muniRAG/internal/rag/vectorDB"
	"github.com/rvaldezc/muniRAG/pkg/logger_i"
)

// Service is the public contract: handlers and workers call this and never
// touch the vector store, embedder or LLM client directly. The private
// struct underneath holds the clients so they can be swapped for mocks in
// tests.
type Service interface {
	Query(ctx context.Context, query string, category string) (QueryResult, error)
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	BatchIngest(ctx context.Context, paths []string, category string) []docModel.IngestResult
	Stats(ctx context.Context) (StatsReport, error)
}

// QueryResult carries the answer and its provenance. NoContext marks the
// explicit "nothing relevant found" outcome, which never reaches the LLM.
type QueryResult struct {
	Answer    string
	Sources   []string
	NoContext bool
}

type StatsReport struct {
	docModel.Stats
	ChunksInStore uint64
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	pipeline    *ingest.Pipeline
	registry    docModel.DocRegistry
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, llmProvider llm.Provider, em embedding.Embedder, registry docModel.DocRegistry) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llmProvider,
		embedder:    em,
		pipeline:    ingest.NewPipeline(registry, vector, em),
		registry:    registry,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) Query(ctx context.Context, query string, category string) (QueryResult, error) {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	processContext, cancel := context.WithTimeout(ctx, config.QueryStepTimeout)
	defer cancel()

	// Embedding
	queryVector, err := s.executeQueryEmbeddingStep(processContext, query)
	if err != nil {
		inMethodLogger.Error("Query embedding failed", "error", err)
		return QueryResult{}, err
	}

	// Vector DB Search
	candidates, err := s.executeVectorSearchStep(processContext, queryVector, category)
	if err != nil {
		inMethodLogger.Error("Vector search failed", "error", err)
		return QueryResult{}, err
	}

	// Floor + ranking
	selected := rankCandidates(candidates)
	if len(selected) == 0 {
		inMethodLogger.Info("No chunk cleared the similarity floor", "candidates", len(candidates))
		return QueryResult{
			Answer:    config.NoRelevantContextAnswer,
			NoContext: true,
		}, nil
	}
	inMethodLogger.Debug("Context selected", "candidates", len(candidates), "selected", len(selected))

	// LLM Generation
	answer, err := s.executeLLMStep(processContext, query, buildContextBlock(selected))
	if err != nil {
		inMethodLogger.Error("Answer generation failed", "error", err)
		return QueryResult{}, err
	}

	return QueryResult{
		Answer:  answer,
		Sources: uniqueSources(selected),
	}, nil
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	job.CurrentStep = jobModel.IngestInit
	result := s.pipeline.ProcessDocument(ctx, ingest.Request{
		Path:     job.JobPayload.IngestPath,
		Filename: job.JobPayload.IngestFileName,
		Category: job.JobPayload.Category,
	})

	job.JobPayload.Result = result
	if result.Outcome == docModel.OutcomeFailed {
		return s.jobError(job, result.Reason)
	}
	job.CurrentStep = jobModel.Complete
	return job
}

func (s *service) BatchIngest(ctx context.Context, paths []string, category string) []docModel.IngestResult {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("batch_ingestion", time.Since(start)) }()
	return s.pipeline.ProcessBatch(ctx, paths, category)
}

func (s *service) Stats(ctx context.Context) (StatsReport, error) {
	stats, err := s.registry.GetStats(ctx)
	if err != nil {
		return StatsReport{}, err
	}

	// chunk count in the vector store is advisory, stats still serve if the
	// store is briefly unreachable
	chunkCount, err := s.vectorDB.CountChunks(ctx)
	if err != nil {
		s.logger.Warn("Chunk count unavailable", "error", err)
		chunkCount = 0
	}

	return StatsReport{Stats: stats, ChunksInStore: chunkCount}, nil
}
