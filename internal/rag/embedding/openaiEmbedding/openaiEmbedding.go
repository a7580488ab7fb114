package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/customHttpClient"
	"github.com/rvaldezc/muniRAG/internal/rag/embedding"
	"github.com/rvaldezc/muniRAG/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

// client is the OpenAI-backed embedder, selectable via EMBEDDING_PROVIDER.
// It produces vectors in the same dimensionality as the Google embedder so
// the store's collection config holds for either provider.
type client struct {
	openAi   openai.Client
	model    string
	throttle *embedding.Throttle
}

func GetOpenAIEmbeddingClient(modelName string, apikey string, throttle *embedding.Throttle) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		if apikey == "" {
			logger.Error("OpenAI API key missing")
			return
		}
		embeddingClient = &client{
			// SDK retries stay off: they would bypass the shared throttle,
			// retrying happens in embed behind it.
			openAi: openai.NewClient(
				option.WithAPIKey(apikey),
				option.WithHTTPClient(customHttpClient.Pooled()),
				option.WithMaxRetries(0),
			),
			model:    modelName,
			throttle: throttle,
		}
		logger.Info("OpenAI Embedding client created", "model", modelName)
	})

	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func (c *client) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text)
}

func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text)
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vector, err := c.embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d of %d: %w", i, len(texts), err)
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

func (c *client) embed(ctx context.Context, text string) ([]float32, error) {
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

		vector, err := c.callOnce(ctx, text)
		if err == nil {
			return vector, nil
		}

		lastErr = err
		if !isRetryable(err) {
			break
		}
		logger.Error("Retryable embedding error", "error", err.Error())
	}
	logger.Error("Error getting Embeddings from OpenAI", "error", lastErr)
	return nil, lastErr
}

func (c *client) callOnce(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.openAi.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}

	raw := resp.Data[0].Embedding
	vector := make([]float32, len(raw))
	for i, v := range raw {
		vector[i] = float32(v)
	}
	return vector, nil
}

// isRetryable reports whether the failed call is worth repeating: rate
// limiting and server-side trouble are, malformed requests are not.
func isRetryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}
