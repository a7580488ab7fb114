package api

import (
	"time"

	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status string                 `json:"status"`
	Ingest *docModel.IngestResult `json:"ingest_result,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type QueryRequest struct {
	Query    string `json:"query" validate:"required"`
	Category string `json:"category,omitempty"`
}

type QueryResponse struct {
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	NoContext bool     `json:"no_context"`
}

type BatchIngestRequest struct {
	FilePaths []string `json:"file_paths" validate:"required"`
	Category  string   `json:"category,omitempty"`
}

type BatchIngestResponse struct {
	Results    []docModel.IngestResult `json:"results"`
	Total      int                     `json:"total"`
	Successful int                     `json:"successful"`
	Skipped    int                     `json:"skipped"`
	Failed     int                     `json:"failed"`
}

type StatsResponse struct {
	docModel.Stats
	ChunksInStore uint64 `json:"chunks_in_store"`
}
