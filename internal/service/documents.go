package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_service.go -package=mocks -mock_names=DocumentService=MockDocumentService hr-rag-bot/internal/service DocumentService

import (
	"context"
	"time"

	"hr-rag-bot/internal/storage"
)

// Document summarises an ingested policy file.
type Document struct {
	Source     string    `json:"source"`
	Chunks     int       `json:"chunks"`
	Complete   bool      `json:"complete"`
	IngestedAt time.Time `json:"ingested_at"`
}

// DocumentService lists the ingested policy documents.
type DocumentService interface {
	List(ctx context.Context) ([]Document, error)
}

type documentService struct {
	docRepo storage.DocumentStore
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(docRepo storage.DocumentStore) DocumentService {
	return &documentService{docRepo: docRepo}
}

// List returns every ingested document ordered by source. A document is
// complete once all of its chunks reached the vector index.
func (s *documentService) List(ctx context.Context) ([]Document, error) {
	records, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, WrapError(ErrUnavailable, err.Error())
	}

	docs := make([]Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, Document{
			Source:     r.Source,
			Chunks:     r.ChunkCount,
			Complete:   r.Hash != "",
			IngestedAt: r.IngestedAt,
		})
	}
	return docs, nil
}
