package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"hr-rag-bot/internal/contextutil"
	"hr-rag-bot/internal/library"
	"hr-rag-bot/internal/storage"
	"hr-rag-bot/internal/vectorstore"
)

// ErrNoText is returned for PDFs without extractable text, typically scans.
var ErrNoText = errors.New("no text extracted (PDF may be scanned)")

// Options configures a Pipeline.
type Options struct {
	// Folder is the directory scanned for policy PDFs.
	Folder string
	// Collection is the vector store collection chunks are uploaded to.
	Collection string
	// ChunkSize is the number of words per chunk.
	ChunkSize int
	// ChunkOverlap is the number of words shared by consecutive chunks.
	ChunkOverlap int
}

// Pipeline orchestrates the ingestion of policy PDFs into SQLite and Qdrant.
type Pipeline struct {
	docRepo     storage.DocumentStore
	chunkRepo   storage.ChunkStore
	vectorStore vectorstore.VectorStore
	uploader    *Uploader
	opts        Options
	extract     ExtractFunc
	newID       func() string
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	docRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	opts Options,
) *Pipeline {
	return &Pipeline{
		docRepo:     docRepo,
		chunkRepo:   chunkRepo,
		vectorStore: vectorStore,
		uploader:    NewUploader(embedder, vectorStore, chunkRepo, opts.Collection),
		opts:        opts,
		extract:     ExtractText,
		newID:       uuid.NewString,
	}
}

// IngestFolder ingests every PDF in the configured folder, one at a time in
// name order. A missing folder or a folder without PDFs is returned as
// library.ErrFolderNotFound or library.ErrNoPDFs before anything is touched.
// Other per-file failures are logged and skipped; the returned error then
// summarises them alongside the stats of the whole run.
// Unchanged files are skipped unless force is set.
func (p *Pipeline) IngestFolder(ctx context.Context, force bool) (IngestStats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := library.ScanPDFs(p.opts.Folder)
	if err != nil {
		return IngestStats{}, err
	}

	logger.InfoContext(ctx, "starting ingestion", "folder", p.opts.Folder, "total_files", len(files), "force", force)

	stats := IngestStats{FilesSeen: len(files)}
	var fileErrs []error

	for _, file := range files {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		if err := p.ingestFile(ctx, file, force, &stats); err != nil {
			stats.FilesFailed++
			logger.ErrorContext(ctx, "failed to ingest file", "source", file.Name, "error", err)
			fileErrs = append(fileErrs, fmt.Errorf("%s: %w", file.Name, err))
		}
	}

	logger.InfoContext(ctx, "ingestion completed", "stats", stats)

	if len(fileErrs) > 0 {
		return stats, fmt.Errorf("ingestion completed with %d failed files: %w", len(fileErrs), errors.Join(fileErrs...))
	}
	return stats, nil
}

// IngestPath ingests a single PDF, bypassing the folder scan.
func (p *Pipeline) IngestPath(ctx context.Context, path string, force bool) (IngestStats, error) {
	stats := IngestStats{FilesSeen: 1}
	file := library.ScannedFile{Name: filepath.Base(path), AbsPath: path}
	if err := p.ingestFile(ctx, file, force, &stats); err != nil {
		stats.FilesFailed++
		return stats, fmt.Errorf("%s: %w", file.Name, err)
	}
	return stats, nil
}

// ingestFile extracts, chunks and uploads one PDF, updating stats.
func (p *Pipeline) ingestFile(ctx context.Context, file library.ScannedFile, force bool, stats *IngestStats) error {
	logger := contextutil.LoggerFromContext(ctx).With("source", file.Name)
	logger.InfoContext(ctx, "processing file")

	hash, err := hashFile(file.AbsPath)
	if err != nil {
		return err
	}

	existing, err := p.docRepo.GetBySource(ctx, file.Name)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	if existing != nil && existing.Hash == hash && !force {
		logger.DebugContext(ctx, "skipping unchanged file", "hash", hash)
		stats.FilesSkipped++
		return nil
	}

	text, err := p.extract(file.AbsPath)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "extracted text", "length", len(text))
	if text == "" {
		return ErrNoText
	}

	chunks := ChunkText(text, p.opts.ChunkSize, p.opts.ChunkOverlap)
	stats.recordChunks(chunks)
	logger.InfoContext(ctx, "chunked text", "chunks", len(chunks))

	docID := p.newID()
	if existing != nil {
		docID = existing.ID
	}

	// Embed before touching the old version, so an embedding outage leaves
	// the previous points searchable.
	points, err := p.uploader.EmbedChunks(ctx, docID, file.Name, chunks)
	if err != nil {
		return err
	}

	if existing != nil {
		if err := p.purge(ctx, existing.ID); err != nil {
			return err
		}
	}

	// The hash is only stored once every chunk is uploaded, so a partial
	// upload is retried on the next run.
	doc := &storage.DocumentRecord{ID: docID, Source: file.Name}
	if err := p.docRepo.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	report, err := p.uploader.UploadPoints(ctx, doc.ID, file.Name, points)
	stats.ChunksAttempted += report.Attempted
	stats.ChunksUploaded += report.Uploaded
	stats.ChunksFailed += report.Failed
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d chunks failed to upload", report.Failed, report.Attempted)
	}

	doc.Hash = hash
	doc.ChunkCount = report.Uploaded
	if err := p.docRepo.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("failed to record document hash: %w", err)
	}

	stats.FilesIngested++
	logger.InfoContext(ctx, "ingested file", "chunks", report.Uploaded)
	return nil
}

// RemoveSource deletes a document's points and bookkeeping. Unknown sources
// are ignored.
func (p *Pipeline) RemoveSource(ctx context.Context, source string) error {
	existing, err := p.docRepo.GetBySource(ctx, source)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up document: %w", err)
	}

	if err := p.purge(ctx, existing.ID); err != nil {
		return err
	}
	if err := p.docRepo.Delete(ctx, existing.ID); err != nil {
		return err
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "removed document", "source", source)
	return nil
}

// purge removes the previous chunks of a document from Qdrant and SQLite.
func (p *Pipeline) purge(ctx context.Context, documentID string) error {
	oldIDs, err := p.chunkRepo.ListIDsByDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to list old chunk IDs: %w", err)
	}
	if len(oldIDs) == 0 {
		return nil
	}

	if err := p.vectorStore.Delete(ctx, p.opts.Collection, oldIDs); err != nil {
		return fmt.Errorf("failed to delete old chunks from vector store: %w", err)
	}
	if err := p.chunkRepo.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("failed to delete old chunks from SQLite: %w", err)
	}
	return nil
}

// hashFile returns the SHA256 hex digest of the file at path.
func hashFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}
