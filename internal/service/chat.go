package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService hr-rag-bot/internal/service ChatService

import (
	"context"
	"strings"
	"unicode/utf8"

	"hr-rag-bot/internal/contextutil"
	"hr-rag-bot/internal/rag"
)

// MaxQuestionLength is the longest question accepted, in characters.
const MaxQuestionLength = 2000

// ChatRequest represents a question in the domain layer.
type ChatRequest struct {
	Question string
}

// ChatService answers HR policy questions.
type ChatService interface {
	// Ask validates the question and answers it. The only errors returned
	// are validation errors; answering failures come back as ERROR mode.
	Ask(ctx context.Context, req ChatRequest) (rag.ChatResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	engine rag.Engine
}

// NewChatService creates a new ChatService.
func NewChatService(engine rag.Engine) ChatService {
	return &chatService{engine: engine}
}

// Ask answers a question.
func (s *chatService) Ask(ctx context.Context, req ChatRequest) (rag.ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		logger.WarnContext(ctx, "empty question in chat request")
		return rag.ChatResponse{}, &ValidationError{
			Field:   "question",
			Message: "cannot be empty",
		}
	}
	if utf8.RuneCountInString(question) > MaxQuestionLength {
		logger.WarnContext(ctx, "question too long", "length", utf8.RuneCountInString(question))
		return rag.ChatResponse{}, &ValidationError{
			Field:   "question",
			Message: "must be at most 2000 characters",
		}
	}

	resp := s.engine.Ask(ctx, question)

	logger.InfoContext(ctx, "question answered", "mode", resp.Mode, "reason", resp.Reason, "sources", len(resp.Sources), "answer_length", len(resp.Answer))
	return resp, nil
}
