package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/domain/jobModel"
	"github.com/rvaldezc/muniRAG/internal/job"
	"github.com/rvaldezc/muniRAG/internal/metrics"
	"github.com/rvaldezc/muniRAG/internal/rag"
	"github.com/rvaldezc/muniRAG/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service    *job.Service
	ragService rag.Service
}

func InitJobHandler(jobService *job.Service, ragService rag.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, ragService: ragService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new ingest job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func getRagService() rag.Service {
	if handlerInstance == nil {
		return nil
	}
	return handlerInstance.ragService
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.CurrentStep = jobModel.IngestInit
	_job.JobPayload.IngestFileName = newJob.documentName
	_job.JobPayload.IngestPath = newJob.documentSource
	_job.JobPayload.Category = newJob.category

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //blocking send so the system can't be overwhelmed
	logJH.Info("Created new ingest job")

	//every ingest job asks the dispatcher for capacity: embedding batches
	//take long enough that waiting behind an existing document hurts.
	//the pool caps growth at MaxWorkerCount and idle workers retire anyway
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	logJH.Debug("Request count ", accurateCount)
	metrics.StartDispatcherSignalCount() //metrics
	h.service.DispatcherChannel <- true
}
