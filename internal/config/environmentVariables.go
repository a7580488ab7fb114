package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking
	SmallDocumentMaxPages = 5    //whole-document strategy cutoff
	ArticleChunkMaxSize   = 1000 //characters, oversized article segments get subdivided
	ArticleChunkOverlap   = 200
	ParagraphChunkMaxSize = 1500
	ParagraphChunkOverlap = 200

	//retrieval
	SimilarityFloor   float32 = 0.4
	TopKResults               = 5
	CandidateMultiple         = 3 //fetch TopK*CandidateMultiple before the floor filter

	//embeddings
	EmbeddingOutputDimensionality int32 = 768
	EmbeddingMinCallInterval            = 100 * time.Millisecond //shared across every outbound embed call
	EmbeddingMaxRetries                 = 2
	EmbeddingRetryBackoff               = 5 * time.Second

	ChunkCollectionName = "municipal-chunks"

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	UploadDir         = "./uploads"
	MaxUploadSize     = 32 << 20
	IngestJobTimeout  = 10 * time.Minute
	QueryStepTimeout  = 30 * time.Second
	ExtractionTimeout = 10 * time.Second

	//vectorDB
	QdrantHost     = "127.0.0.1"
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false
	QdrantPoolSize = 1

	//llm + embeddings
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DBs we can use
	RedisJobStore    = 0
	RedisDocRegistry = 1

	RedisJobStoreTTL = 24 * time.Hour

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	NoRelevantContextAnswer = "Lo siento, no encontré información específica en mis documentos sobre tu consulta. " +
		"Reformula tu pregunta de manera más específica o contacta directamente con la municipalidad."

	ModelContext = "Eres un asistente virtual experto en trámites municipales. " +
		"SOLO puedes responder preguntas relacionadas con trámites, licencias, permisos, ordenanzas y procedimientos del municipio. " +
		"Responde basándote ÚNICAMENTE en el contexto proporcionado. " +
		"Si la información no está en el contexto, indica claramente que no tienes esa información. " +
		"Menciona los documentos fuente cuando sea relevante."
)

// EmbeddingProvider returns which embedding backend to use, "google" by default.
func EmbeddingProvider() string {
	if p := os.Getenv("EMBEDDING_PROVIDER"); p != "" {
		return p
	}
	return "google"
}

func GoogleAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}
