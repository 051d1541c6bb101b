// Package app wires configuration, stores and clients into the services
// shared by the binaries under cmd/.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"hr-rag-bot/internal/config"
	"hr-rag-bot/internal/indexer"
	"hr-rag-bot/internal/llm"
	"hr-rag-bot/internal/rag"
	"hr-rag-bot/internal/service"
	"hr-rag-bot/internal/storage"
	"hr-rag-bot/internal/vectorstore"
)

// App holds the long-lived handles of one process.
type App struct {
	Config *config.Config

	DB          *sql.DB
	Documents   *storage.DocumentRepo
	Chunks      *storage.ChunkRepo
	VectorStore *vectorstore.QdrantStore
	Embedder    *llm.EmbeddingsClient
	LLM         *llm.Client

	Engine          rag.Engine
	ChatService     service.ChatService
	DocumentService service.DocumentService
	Pipeline        *indexer.Pipeline
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// New opens the database, connects to Qdrant, makes sure the collection
// exists and checks that the embedding deployment returns vectors of the
// configured size. The caller must Close the returned App.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.DB = db
	if err := storage.Migrate(db); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.InfoContext(ctx, "Database initialized", "path", cfg.DBPath)

	a.Documents = storage.NewDocumentRepo(db)
	a.Chunks = storage.NewChunkRepo(db)

	vs, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	a.VectorStore = vs

	if err := vs.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to ensure Qdrant collection: %w", err)
	}
	slog.InfoContext(ctx, "Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	llmOpts := llm.Options{
		Endpoint:   cfg.LLMEndpoint,
		APIKey:     cfg.LLMAPIKey,
		APIVersion: cfg.LLMAPIVersion,
	}
	a.Embedder = llm.NewEmbeddingsClient(llmOpts, cfg.EmbeddingDeployment, cfg.QdrantVectorSize)
	if _, err := a.Embedder.EmbedText(ctx, "test"); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to validate embedding client: %w", err)
	}
	slog.InfoContext(ctx, "Embedding client validated", "deployment", cfg.EmbeddingDeployment, "vector_size", cfg.QdrantVectorSize)

	a.LLM = llm.NewClient(llmOpts, cfg.ChatDeployment)

	tuning := cfg.Tuning
	retriever := rag.NewRetriever(a.Embedder, vs, cfg.QdrantCollection)
	a.Engine = rag.NewEngine(retriever, a.LLM, rag.Options{
		Threshold:    tuning.RelevanceThreshold,
		TopK:         tuning.TopK,
		SystemPrompt: tuning.SystemPrompt,
		MaxTokens:    tuning.MaxTokens,
		Temperature:  tuning.Temperature,
	})
	a.ChatService = service.NewChatService(a.Engine)
	a.DocumentService = service.NewDocumentService(a.Documents)

	a.Pipeline = indexer.NewPipeline(a.Documents, a.Chunks, a.Embedder, vs, indexer.Options{
		Folder:       cfg.PDFFolder,
		Collection:   cfg.QdrantCollection,
		ChunkSize:    tuning.ChunkSize,
		ChunkOverlap: tuning.ChunkOverlap,
	})

	slog.DebugContext(ctx, "Services initialized",
		"azure", cfg.AzureMode(),
		"chat_deployment", cfg.ChatDeployment,
		"threshold", tuning.RelevanceThreshold,
		"top_k", tuning.TopK,
	)
	return a, nil
}

// Close releases the vector store connection and the database.
func (a *App) Close() error {
	var firstErr error
	if a.VectorStore != nil {
		if err := a.VectorStore.Close(); err != nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
