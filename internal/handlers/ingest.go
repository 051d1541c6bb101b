package handlers

import (
	"context"
	"net/http"
	"sync"

	"hr-rag-bot/internal/contextutil"
	"hr-rag-bot/internal/indexer"
)

// Ingester runs an ingestion pass over the policy folder.
type Ingester interface {
	IngestFolder(ctx context.Context, force bool) (indexer.IngestStats, error)
}

// IngestHandler handles HTTP requests for triggering re-ingestion.
type IngestHandler struct {
	ingester Ingester

	mu      sync.Mutex
	running bool
	// done is closed when the current run finishes.
	done chan struct{}
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingester Ingester) *IngestHandler {
	return &IngestHandler{ingester: ingester}
}

// IngestResponse represents the response from the ingest endpoint.
//
// swagger:model IngestResponse
type IngestResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP starts an ingestion run in the background.
//
// swagger:route POST /api/ingest ingestFolder
//
// # Re-ingest the policy folder
//
// Use `force=true` to re-upload files whose content has not changed.
//
// ---
// produces:
// - application/json
// responses:
//
//	'202':
//	  description: Ingestion started
//	  schema:
//	    "$ref": "#/definitions/IngestResponse"
//	'409':
//	  description: An ingestion run is already in progress
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	force := r.URL.Query().Get("force") == "true"

	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		logger.WarnContext(ctx, "ingestion already running")
		writeError(w, http.StatusConflict, "Ingestion already running")
		return
	}
	h.running = true
	done := make(chan struct{})
	h.done = done
	h.mu.Unlock()

	logger.InfoContext(ctx, "ingestion triggered via API", "force", force)

	// The run outlives the request but keeps its logger.
	runCtx := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			h.mu.Lock()
			h.running = false
			h.mu.Unlock()
			close(done)
		}()
		stats, err := h.ingester.IngestFolder(runCtx, force)
		if err != nil {
			logger.ErrorContext(runCtx, "ingestion completed with errors", "stats", stats, "error", err)
			return
		}
		logger.InfoContext(runCtx, "ingestion completed", "stats", stats)
	}()

	message := "Ingestion started. Check server logs for progress."
	if force {
		message = "Forced ingestion started. Check server logs for progress."
	}
	writeJSON(ctx, w, http.StatusAccepted, IngestResponse{
		Message: message,
		Status:  "accepted",
	})
}
