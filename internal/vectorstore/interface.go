package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks hr-rag-bot/internal/vectorstore VectorStore

import "context"

// Payload keys written for every policy chunk.
const (
	FieldContent    = "content"
	FieldSource     = "source"
	FieldChunkIndex = "chunk_index"
	FieldDocumentID = "document_id"
)

// Point represents a vector point with metadata.
type Point struct {
	ID      string
	Vec     []float32
	Payload map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Payload map[string]any
}

// UploadResult reports the outcome of a single point in an upload batch.
type UploadResult struct {
	ID        string
	Succeeded bool
	// ErrorMessage is empty when Succeeded is true.
	ErrorMessage string
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upload submits points as one batch and reports success per point.
	// The returned error is only non-nil when no per-point outcome can be given.
	Upload(ctx context.Context, collection string, points []Point) ([]UploadResult, error)

	// Search returns the k nearest points. Only the payload fields named in
	// fields are returned; a nil slice returns the whole payload.
	Search(ctx context.Context, collection string, query []float32, k int, fields []string) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
