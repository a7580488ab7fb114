package embedding

import "context"

// Embedder converts text to fixed-dimensionality vectors. EmbedBatch applies
// the single-text call sequentially, every outbound call passes through the
// shared Throttle.
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
