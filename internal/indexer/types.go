package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks hr-rag-bot/internal/indexer Embedder

import "context"

// Embedder turns chunk text into a vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ExtractFunc returns the plain text of the PDF at path.
type ExtractFunc func(path string) (string, error)
