package indexer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hr-rag-bot/internal/contextutil"
	"hr-rag-bot/internal/storage"
	"hr-rag-bot/internal/vectorstore"
)

// UploadReport counts the outcome of one UploadPoints call.
type UploadReport struct {
	Attempted int
	Uploaded  int
	Failed    int
}

// Uploader embeds chunks and submits them to the vector store as one batch.
// The two steps are separate so callers can drop superseded points only once
// the replacements are embedded.
type Uploader struct {
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	chunkRepo   storage.ChunkStore
	collection  string
	newID       func() string
}

// NewUploader creates a new Uploader.
func NewUploader(embedder Embedder, vectorStore vectorstore.VectorStore, chunkRepo storage.ChunkStore, collection string) *Uploader {
	return &Uploader{
		embedder:    embedder,
		vectorStore: vectorStore,
		chunkRepo:   chunkRepo,
		collection:  collection,
		newID:       uuid.NewString,
	}
}

// EmbedChunks embeds every chunk and builds its point under a fresh id.
// It stops at the first embedding failure; nothing is written anywhere.
func (u *Uploader) EmbedChunks(ctx context.Context, documentID, source string, chunks []string) ([]vectorstore.Point, error) {
	logger := contextutil.LoggerFromContext(ctx).With("source", source)

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		vec, err := u.embedder.EmbedText(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		logger.DebugContext(ctx, "embedded chunk", "chunk_index", i, "dimensions", len(vec))

		points[i] = vectorstore.Point{
			ID:  u.newID(),
			Vec: vec,
			Payload: map[string]any{
				vectorstore.FieldContent:    chunk,
				vectorstore.FieldSource:     source,
				vectorstore.FieldChunkIndex: i,
				vectorstore.FieldDocumentID: documentID,
			},
		}
	}
	return points, nil
}

// UploadPoints submits points built by EmbedChunks as one batch. Each
// per-chunk outcome is logged and recorded against documentID. Failed
// uploads are not retried and successful ones are not rolled back.
func (u *Uploader) UploadPoints(ctx context.Context, documentID, source string, points []vectorstore.Point) (UploadReport, error) {
	logger := contextutil.LoggerFromContext(ctx).With("source", source)

	if len(points) == 0 {
		logger.InfoContext(ctx, "no chunks to upload")
		return UploadReport{}, nil
	}

	logger.InfoContext(ctx, "uploading chunks", "count", len(points))
	results, err := u.vectorStore.Upload(ctx, u.collection, points)
	if err != nil {
		return UploadReport{Attempted: len(points), Failed: len(points)}, fmt.Errorf("failed to upload chunks: %w", err)
	}

	outcomes := make(map[string]vectorstore.UploadResult, len(results))
	for _, r := range results {
		outcomes[r.ID] = r
	}

	report := UploadReport{Attempted: len(points)}
	var recordErrs []error
	for i, point := range points {
		record := &storage.ChunkRecord{
			ID:         point.ID,
			DocumentID: documentID,
			ChunkIndex: i,
			Text:       vectorstore.PayloadString(point.Payload, vectorstore.FieldContent),
			Status:     storage.ChunkStatusUploaded,
		}

		outcome, ok := outcomes[point.ID]
		switch {
		case !ok:
			record.Status = storage.ChunkStatusFailed
			record.Error = "no result reported"
		case !outcome.Succeeded:
			record.Status = storage.ChunkStatusFailed
			record.Error = outcome.ErrorMessage
		}

		if record.Status == storage.ChunkStatusUploaded {
			report.Uploaded++
			logger.DebugContext(ctx, "chunk uploaded", "chunk_id", point.ID, "chunk_index", i)
		} else {
			report.Failed++
			logger.WarnContext(ctx, "chunk upload failed", "chunk_id", point.ID, "chunk_index", i, "error", record.Error)
		}

		if err := u.chunkRepo.Insert(ctx, record); err != nil {
			recordErrs = append(recordErrs, err)
		}
	}

	if len(recordErrs) > 0 {
		return report, fmt.Errorf("failed to record %d chunk outcomes: %w", len(recordErrs), errors.Join(recordErrs...))
	}
	return report, nil
}
