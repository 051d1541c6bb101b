package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hr-rag-bot/internal/app"
	"hr-rag-bot/internal/config"
	"hr-rag-bot/internal/http"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API answers HR policy questions from indexed PDF documents.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: HR Policy Assistant API
//   description: |
//     Retrieval-augmented question answering over the company's HR policy PDFs.
//     Answers are grounded in the policies when they are relevant enough and
//     fall back to a general assistant otherwise.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := app.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		_ = a.Close()
	}()

	deps := &http.Deps{
		ChatService:     a.ChatService,
		DocumentService: a.DocumentService,
		VectorStore:     a.VectorStore,
		Collection:      cfg.QdrantCollection,
		DB:              a.DB,
		Ingester:        a.Pipeline,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("Starting API server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
}
