package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hr-rag-bot/internal/app"
	"hr-rag-bot/internal/config"
	"hr-rag-bot/internal/indexer"
	"hr-rag-bot/internal/library"
)

func main() {
	dir := flag.String("dir", "", "folder of policy PDFs (default PDF_FOLDER)")
	force := flag.Bool("force", false, "re-upload files whose content has not changed")
	watch := flag.Bool("watch", false, "keep running and re-ingest PDFs as they change")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dir != "" {
		cfg.PDFFolder = *dir
	}

	slog.SetDefault(app.NewLogger(cfg, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		_ = a.Close()
	}()

	_, err = a.Pipeline.IngestFolder(ctx, *force)
	switch {
	case errors.Is(err, library.ErrFolderNotFound), errors.Is(err, library.ErrNoPDFs):
		slog.Error("Nothing to ingest", "folder", cfg.PDFFolder, "error", err)
		_ = a.Close()
		os.Exit(1)
	case err != nil && !*watch:
		slog.Error("Ingestion finished with errors", "error", err)
		_ = a.Close()
		os.Exit(1)
	case err != nil:
		slog.Warn("Initial ingestion finished with errors", "error", err)
	}

	if !*watch {
		return
	}

	slog.Info("Watching for changes", "folder", cfg.PDFFolder)
	if err := a.Pipeline.Watch(ctx, indexer.DefaultQuietPeriod); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Watcher stopped", "error", err)
		_ = a.Close()
		os.Exit(1)
	}
}
