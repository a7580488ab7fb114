package googleEmbedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/rag/embedding"
	"github.com/rvaldezc/muniRAG/pkg/logger_i"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension = config.EmbeddingOutputDimensionality

type client struct {
	genAi    *genai.Client
	model    string
	throttle *embedding.Throttle
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string, throttle *embedding.Throttle) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
	}
	if c != nil {
		embeddingClient = &client{
			genAi:    c,
			model:    modelName,
			throttle: throttle,
		}
		logger.Info("Google Embedding client created", "model", modelName)
		go closeClient(ctx, embeddingClient)
	}
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string, throttle *embedding.Throttle) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey, throttle)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func (c *client) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text, "RETRIEVAL_DOCUMENT")
}

func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text, "RETRIEVAL_QUERY")
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vector, err := c.embed(ctx, text, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d of %d: %w", i, len(texts), err)
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

func (c *client) embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= config.EmbeddingMaxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("Retrying embedding call", "attempt", attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(config.EmbeddingRetryBackoff):
			}
		}

		if err := c.throttle.Wait(ctx); err != nil {
			return nil, err
		}

		result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(text),
			&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: taskType})
		if err == nil && len(result.Embeddings) > 0 {
			return result.Embeddings[0].Values, nil
		}
		if err == nil {
			err = fmt.Errorf("empty embedding response")
		}

		lastErr = err
		if !isRetryable(err) {
			break
		}
		logger.Error("Retryable embedding error", "error", err.Error())
	}
	logger.Error("Error getting Embeddings from Google", "error", lastErr)
	return nil, lastErr
}
