package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/data/store"
	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
	jobmodel "github.com/rvaldezc/muniRAG/internal/domain/jobModel"
	"github.com/rvaldezc/muniRAG/internal/handlers"
	"github.com/rvaldezc/muniRAG/internal/job"
	"github.com/rvaldezc/muniRAG/internal/rag"
	"github.com/rvaldezc/muniRAG/internal/rag/embedding"
	"github.com/rvaldezc/muniRAG/internal/rag/embedding/googleEmbedding"
	"github.com/rvaldezc/muniRAG/internal/rag/embedding/openaiEmbedding"
	"github.com/rvaldezc/muniRAG/internal/rag/llm/gemini"
	"github.com/rvaldezc/muniRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/rvaldezc/muniRAG/internal/server"
	"github.com/rvaldezc/muniRAG/internal/worker"
	"github.com/rvaldezc/muniRAG/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	_ = godotenv.Load()

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	if jobStore := store.GetRedisJobStore(serviceContext); jobStore != nil {
		serviceConfig.JobStore = jobStore
	} else {
		logger.Error("Redis job store is offline, falling back to in-memory")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}

	var registry = newDocRegistry(serviceContext, logger)
	service := job.InitJobService(serviceConfig)

	//the throttle is shared: every outbound embedding call waits on the
	//same limiter no matter which provider or caller issues it
	throttle := embedding.NewThrottle(config.EmbeddingMinCallInterval)
	embeddingService := newEmbedder(serviceContext, throttle)

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)
	llmProvider := gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleAPIKey())

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, registry)

	handlers.InitJobHandler(service, ragService)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func newDocRegistry(ctx context.Context, logger *logger_i.Logger) docModel.DocRegistry {
	if registry := store.GetRedisDocRegistry(ctx); registry != nil {
		return registry
	}
	logger.Error("Redis document registry is offline, falling back to in-memory")
	return store.InitInMemoryDocRegistry()
}

func newEmbedder(ctx context.Context, throttle *embedding.Throttle) embedding.Embedder {
	if config.EmbeddingProvider() == "openai" {
		return openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey(), throttle)
	}
	return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GoogleAPIKey(), throttle)
}
