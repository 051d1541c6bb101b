package handlers

import (
	"net/http"

	"hr-rag-bot/internal/contextutil"
	"hr-rag-bot/internal/service"
)

// DocumentsHandler lists ingested policy documents.
type DocumentsHandler struct {
	documentService service.DocumentService
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(documentService service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documentService: documentService}
}

// DocumentsResponse is the list of ingested documents.
//
// swagger:model DocumentsResponse
type DocumentsResponse struct {
	Documents []service.Document `json:"documents"`
}

// ServeHTTP handles HTTP requests for the document list.
//
// swagger:route GET /api/documents listDocuments
//
// # List ingested policy documents
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Documents ordered by source file name
//	  schema:
//	    "$ref": "#/definitions/DocumentsResponse"
//	'503':
//	  description: Ingestion database unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *DocumentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	docs, err := h.documentService.List(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list documents")
		return
	}
	if docs == nil {
		docs = []service.Document{}
	}

	writeJSON(ctx, w, http.StatusOK, DocumentsResponse{Documents: docs})
}
