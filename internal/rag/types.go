package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_rag.go -package=mocks hr-rag-bot/internal/rag Engine,Embedder,Searcher,Completer

import (
	"context"

	"hr-rag-bot/internal/llm"
	"hr-rag-bot/internal/vectorstore"
)

// Mode tells how an answer was produced.
type Mode string

const (
	// ModeRAG answers are grounded in retrieved policy text.
	ModeRAG Mode = "RAG"
	// ModeGeneral answers come from the model alone.
	ModeGeneral Mode = "GENERAL"
	// ModeError marks the fixed apology returned when answering failed.
	ModeError Mode = "ERROR"
)

// Reason is the machine-readable cause of the chosen mode.
type Reason string

const (
	ReasonRelevantContext  Reason = "relevant_context"
	ReasonLowRelevance     Reason = "low_relevance"
	ReasonNoResults        Reason = "no_results"
	ReasonRetrievalFailed  Reason = "retrieval_failed"
	ReasonGenerationFailed Reason = "generation_failed"
)

// RetrievalStatus distinguishes an empty index hit from a failed lookup.
type RetrievalStatus string

const (
	StatusFound  RetrievalStatus = "found"
	StatusEmpty  RetrievalStatus = "empty"
	StatusFailed RetrievalStatus = "failed"
)

const (
	// ApologyAnswer is returned whenever a question could not be answered.
	ApologyAnswer = "Sorry, something went wrong."
	// RefusalPhrase is what the model is told to say when the context lacks the answer.
	RefusalPhrase = "I do not have that information."
)

// Retrieval is the outcome of looking up context for a question.
type Retrieval struct {
	// Context is the retrieved chunk contents joined by newlines, trimmed.
	Context string
	// Score is the highest similarity among the matches, 0 when there are none.
	Score float64
	// Sources are the distinct source files of the matches, in rank order.
	Sources []string
	Status  RetrievalStatus
	// Err is set when Status is StatusFailed.
	Err error
}

// ChatResponse is the answer to one question.
type ChatResponse struct {
	Answer string `json:"answer"`
	Mode   Mode   `json:"mode"`
	// Sources is non-empty only in RAG mode.
	Sources []string `json:"sources"`
	Reason  Reason   `json:"reason"`
}

// Engine answers HR policy questions.
type Engine interface {
	// Ask never fails: errors are reported as an ERROR mode response.
	Ask(ctx context.Context, question string) ChatResponse
}

// Embedder turns a question into a vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Searcher finds the points nearest to a vector.
type Searcher interface {
	Search(ctx context.Context, collection string, query []float32, k int, fields []string) ([]vectorstore.SearchResult, error)
}

// Completer requests a chat completion.
type Completer interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}
