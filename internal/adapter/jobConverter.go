package adapter

import (
	"fmt"
	"time"

	"github.com/rvaldezc/muniRAG/internal/api"
	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
	"github.com/rvaldezc/muniRAG/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Ingest: toIngestResult(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func toIngestResult(payload jobModel.JobPayload) *docModel.IngestResult {
	if payload.Result.Outcome == "" {
		return nil
	}
	result := payload.Result
	return &result
}

func ToBatchResponse(results []docModel.IngestResult) api.BatchIngestResponse {
	response := api.BatchIngestResponse{
		Results: results,
		Total:   len(results),
	}
	for _, r := range results {
		switch r.Outcome {
		case docModel.OutcomeProcessed:
			response.Successful++
		case docModel.OutcomeSkippedDuplicate:
			response.Skipped++
		case docModel.OutcomeFailed:
			response.Failed++
		}
	}
	return response
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(jobModel.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
