package handlers

import (
	"encoding/json"
	"net/http"

	"hr-rag-bot/internal/contextutil"
	"hr-rag-bot/internal/rag"
	"hr-rag-bot/internal/service"
)

// maxRequestBody bounds JSON and form bodies.
const maxRequestBody = 64 << 10

// AskHandler handles JSON questions.
type AskHandler struct {
	chatService service.ChatService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(chatService service.ChatService) *AskHandler {
	return &AskHandler{chatService: chatService}
}

// AskRequest represents the HTTP request payload for a question.
//
// swagger:model AskRequest
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse represents the HTTP response payload for a question.
//
// swagger:model AskResponse
type AskResponse struct {
	// The generated answer
	Answer string `json:"answer"`

	// How the answer was produced: "RAG", "GENERAL" or "ERROR"
	Mode rag.Mode `json:"mode"`

	// Policy files the answer was grounded in. Empty unless mode is RAG.
	Sources []string `json:"sources"`

	// Machine-readable cause of the mode, e.g. "low_relevance"
	Reason rag.Reason `json:"reason"`
}

// ServeHTTP handles HTTP requests for questions.
//
// swagger:route POST /api/ask askQuestion
//
// # Ask an HR policy question
//
// Answers from the indexed policy documents when they are relevant enough,
// otherwise as a general assistant. Answering failures are reported in the
// body with mode ERROR and a 200 status.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Answer with mode and sources
//	  schema:
//	    "$ref": "#/definitions/AskResponse"
//	'400':
//	  description: Bad request (invalid body or question)
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcResp, err := h.chatService.Ask(ctx, service.ChatRequest{Question: req.Question})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to answer question")
		return
	}

	sources := svcResp.Sources
	if sources == nil {
		sources = []string{}
	}

	writeJSON(ctx, w, http.StatusOK, AskResponse{
		Answer:  svcResp.Answer,
		Mode:    svcResp.Mode,
		Sources: sources,
		Reason:  svcResp.Reason,
	})
}
