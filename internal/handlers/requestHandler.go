package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rvaldezc/muniRAG/internal/adapter"
	"github.com/rvaldezc/muniRAG/internal/adapter/utils"
	"github.com/rvaldezc/muniRAG/internal/api"
	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id             string
	traceId        string
	documentName   string
	documentSource string
	category       string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// QueryHandler answers a question synchronously: embed, search, generate.
// When nothing clears the similarity floor the response carries the fixed
// fallback answer with no_context set, and the LLM is never called.
func QueryHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.QueryRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Query handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Query == "" {
			logRH.Warn("Bad Query Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		result, err := getRagService().Query(request.Context(), requestData.Query, requestData.Category)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Query processing failed")
			return
		}

		writeJsonResponse(w, http.StatusOK, api.QueryResponse{
			Answer:    result.Answer,
			Sources:   result.Sources,
			NoContext: result.NoContext,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler retrieves the current state of an ingest job by its ID.
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostIngestHandler receives a file via multipart/form-data, saves it to the
// upload directory and queues an ingestion job. Returns 202 with a status URL.
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()
		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		err := r.ParseMultipartForm(config.MaxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		//get the document the user uploads
		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		docName := r.FormValue("document_name")
		if docName == "" {
			docName = fileMetadata.Filename
		}

		filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
		tempFilePath := filepath.Join(targetDir, filename)
		destinationFileWriter, err := os.Create(tempFilePath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
			return
		}
		defer destinationFileWriter.Close()

		if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
			return
		}

		newJob := newJobData{
			id:             utils.GetNewUUID(),
			traceId:        r.Context().Value(config.TRACE_ID_KEY).(string),
			documentName:   docName,
			documentSource: tempFilePath,
			category:       r.FormValue("category"),
		}
		CreateNewJob(newJob)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// BatchIngestHandler ingests a list of server-local files synchronously and
// reports per-document outcomes. One bad document never fails the batch.
func BatchIngestHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		var requestData api.BatchIngestRequest
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || len(requestData.FilePaths) == 0 {
			logRH.Warn("Bad Batch Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		results := getRagService().BatchIngest(r.Context(), requestData.FilePaths, requestData.Category)
		writeJsonResponse(w, http.StatusOK, adapter.ToBatchResponse(results))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// StatsHandler reports ingestion counters and the live chunk count.
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		report, err := getRagService().Stats(r.Context())
		if err != nil {
			logRH.Error("Stats lookup failed", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Stats unavailable")
			return
		}

		writeJsonResponse(w, http.StatusOK, api.StatsResponse{
			Stats:         report.Stats,
			ChunksInStore: report.ChunksInStore,
		})
	}
}
