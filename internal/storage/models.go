package storage

import "time"

// ChunkStatus records whether a chunk reached the vector index.
type ChunkStatus string

const (
	ChunkStatusUploaded ChunkStatus = "uploaded"
	ChunkStatusFailed   ChunkStatus = "failed"
)

// DocumentRecord represents an ingested PDF in the database.
type DocumentRecord struct {
	ID         string // UUID
	Source     string // File name inside the policy folder
	Hash       string // SHA256 hex string of file content, empty until a clean upload
	ChunkCount int    // Chunks uploaded on the last ingestion
	IngestedAt time.Time
}

// ChunkRecord represents a chunk of policy text sent to the vector index.
type ChunkRecord struct {
	ID         string // UUID (same as Qdrant point ID)
	DocumentID string // UUID (foreign key to documents.id)
	ChunkIndex int    // Index within document (starts at 0)
	Text       string
	Status     ChunkStatus
	Error      string // Upload error message when Status is failed
}
