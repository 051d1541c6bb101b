package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hr-rag-bot/internal/contextutil"
	"hr-rag-bot/internal/llm"
)

// Options holds the retrieval and generation settings of an Engine.
type Options struct {
	// Threshold is the minimum top score for answering from retrieved context.
	Threshold float64
	// TopK is the number of chunks retrieved per question.
	TopK int
	// SystemPrompt is sent as the system message of every completion.
	SystemPrompt string
	// MaxTokens bounds the completion length.
	MaxTokens int
	// Temperature is passed to the completion request.
	Temperature float64
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	retriever *Retriever
	completer Completer
	opts      Options
}

// NewEngine creates a new RAG engine.
func NewEngine(retriever *Retriever, completer Completer, opts Options) Engine {
	return &ragEngine{
		retriever: retriever,
		completer: completer,
		opts:      opts,
	}
}

// Ask retrieves context, picks RAG or GENERAL mode and requests a completion.
// Any failure, including a panic inside the flow, yields the apology answer
// in ERROR mode.
func (e *ragEngine) Ask(ctx context.Context, question string) (resp ChatResponse) {
	logger := contextutil.LoggerFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "panic while answering question", "panic", fmt.Sprint(r))
			resp = errorResponse()
		}
	}()

	logger.InfoContext(ctx, "question received", "question", question)

	retrieval := e.retriever.Retrieve(ctx, question, e.opts.TopK)
	mode, reason := Decide(retrieval, e.opts.Threshold)

	var prompt string
	sources := []string{}
	if mode == ModeRAG {
		prompt = BuildRAGPrompt(retrieval.Context, question)
		sources = retrieval.Sources
	} else {
		prompt = BuildGeneralPrompt(question)
	}

	logger.InfoContext(ctx, "mode selected", "mode", mode, "score", retrieval.Score, "reason", reason)

	answer, err := e.complete(ctx, prompt)
	if err != nil {
		logger.ErrorContext(ctx, "failed to generate answer", "mode", mode, "error", err)
		return errorResponse()
	}

	return ChatResponse{
		Answer:  answer,
		Mode:    mode,
		Sources: sources,
		Reason:  reason,
	}
}

// complete asks the model for an answer. A blank completion is reported as an
// error, so callers answer in ERROR mode with the apology rather than
// returning an empty answer in the selected mode.
func (e *ragEngine) complete(ctx context.Context, prompt string) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: e.opts.SystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}
	answer, err := e.completer.ChatWithMessages(ctx, messages, llm.ChatParams{
		MaxTokens:   e.opts.MaxTokens,
		Temperature: e.opts.Temperature,
	})
	if err != nil {
		return "", err
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return "", errors.New("empty completion")
	}
	return answer, nil
}

// Decide picks the answering mode for a retrieval. RAG is chosen only when
// there is context and its score reaches threshold.
func Decide(r Retrieval, threshold float64) (Mode, Reason) {
	switch {
	case r.Status == StatusFailed:
		return ModeGeneral, ReasonRetrievalFailed
	case r.Status == StatusEmpty || r.Context == "":
		return ModeGeneral, ReasonNoResults
	case r.Score < threshold:
		return ModeGeneral, ReasonLowRelevance
	default:
		return ModeRAG, ReasonRelevantContext
	}
}

func errorResponse() ChatResponse {
	return ChatResponse{
		Answer:  ApologyAnswer,
		Mode:    ModeError,
		Sources: []string{},
		Reason:  ReasonGenerationFailed,
	}
}
