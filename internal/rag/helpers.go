package rag

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/domain/jobModel"
	"github.com/rvaldezc/muniRAG/internal/metrics"
	"github.com/rvaldezc/muniRAG/internal/rag/vectorDB"
)

func (s *service) jobError(job jobModel.Job, message string) jobModel.Job {
	s.logger.Error("INGESTION_FAILURE", "reason", message)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Retry:   true,
	}
	job.Status = jobModel.JobStatusError
	return job
}

func (s *service) executeQueryEmbeddingStep(ctx context.Context, query string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("query_embedding", time.Since(start)) }()

	return s.embedder.EmbedQuery(ctx, query)
}

func (s *service) executeVectorSearchStep(ctx context.Context, queryVector []float32, category string) ([]vectorDB.ScoredChunk, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	candidateLimit := uint64(config.TopKResults * config.CandidateMultiple)
	return s.vectorDB.Query(ctx, queryVector, candidateLimit, category)
}

func (s *service) executeLLMStep(ctx context.Context, query string, contextBlock string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Generate(ctx, query, contextBlock)
}

// rankCandidates drops everything below the similarity floor, orders the
// survivors by score descending with document order (ascending seq) breaking
// ties, and keeps the top K.
func rankCandidates(candidates []vectorDB.ScoredChunk) []vectorDB.ScoredChunk {
	selected := make([]vectorDB.ScoredChunk, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= config.SimilarityFloor {
			selected = append(selected, c)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Score != selected[j].Score {
			return selected[i].Score > selected[j].Score
		}
		return selected[i].Seq < selected[j].Seq
	})

	if len(selected) > config.TopKResults {
		selected = selected[:config.TopKResults]
	}
	return selected
}

// buildContextBlock renders each chunk with its source attribution so the
// model can cite documents by name.
func buildContextBlock(chunks []vectorDB.ScoredChunk) string {
	blocks := make([]string, 0, len(chunks))
	for _, c := range chunks {
		blocks = append(blocks, fmt.Sprintf("[Fuente: %s]\n%s", c.DocumentName, c.Text))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}

// uniqueSources returns the distinct document names in selection order.
func uniqueSources(chunks []vectorDB.ScoredChunk) []string {
	seen := make(map[string]bool, len(chunks))
	var sources []string
	for _, c := range chunks {
		if !seen[c.DocumentName] {
			seen[c.DocumentName] = true
			sources = append(sources, c.DocumentName)
		}
	}
	return sources
}
