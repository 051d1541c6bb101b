package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

// EmbeddingsClient is a client for the embeddings API.
type EmbeddingsClient struct {
	Endpoint     string
	Model        string
	ExpectedSize int // Expected vector size for validation
	api          openai.Client
}

// NewEmbeddingsClient creates a new embeddings client.
// expectedSize is the expected vector size (from QDRANT_VECTOR_SIZE config).
// Every embedding returned by EmbedText is validated against this size.
func NewEmbeddingsClient(opts Options, model string, expectedSize int) *EmbeddingsClient {
	return &EmbeddingsClient{
		Endpoint:     opts.Endpoint,
		Model:        model,
		ExpectedSize: expectedSize,
		api:          openai.NewClient(opts.requestOptions()...),
	}
}

// EmbedText generates the embedding for a single text with one request.
func (c *EmbeddingsClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty input text")
	}

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.Model),
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	data := resp.Data[0].Embedding
	if c.ExpectedSize > 0 && len(data) != c.ExpectedSize {
		return nil, fmt.Errorf("embedding has size %d, expected %d", len(data), c.ExpectedSize)
	}

	vec := make([]float32, len(data))
	for i, v := range data {
		vec[i] = float32(v)
	}
	return vec, nil
}
