package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"hr-rag-bot/internal/contextutil"
	"hr-rag-bot/internal/rag"
	ragmocks "hr-rag-bot/internal/rag/mocks"
	"hr-rag-bot/internal/service"

	"go.uber.org/mock/gomock"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewChatService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewChatService(ragmocks.NewMockEngine(ctrl))
	if svc == nil {
		t.Fatal("NewChatService() returned nil")
	}
}

func TestChatService_Ask(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := ragmocks.NewMockEngine(ctrl)
	svc := service.NewChatService(mockEngine)

	ragAnswer := rag.ChatResponse{
		Answer:  "Employees get 20 days of annual leave.",
		Mode:    rag.ModeRAG,
		Sources: []string{"leave.pdf"},
		Reason:  rag.ReasonRelevantContext,
	}

	tests := []struct {
		name         string
		req          service.ChatRequest
		mockSetup    func()
		wantErr      bool
		want         rag.ChatResponse
		checkErrType func(error) bool
	}{
		{
			name: "answered from policy",
			req:  service.ChatRequest{Question: "What is the leave policy?"},
			mockSetup: func() {
				mockEngine.EXPECT().
					Ask(gomock.Any(), "What is the leave policy?").
					Return(ragAnswer)
			},
			want: ragAnswer,
		},
		{
			name: "question is trimmed",
			req:  service.ChatRequest{Question: "  What is the leave policy?\n"},
			mockSetup: func() {
				mockEngine.EXPECT().
					Ask(gomock.Any(), "What is the leave policy?").
					Return(ragAnswer)
			},
			want: ragAnswer,
		},
		{
			name: "engine error mode passes through",
			req:  service.ChatRequest{Question: "Hello"},
			mockSetup: func() {
				mockEngine.EXPECT().
					Ask(gomock.Any(), "Hello").
					Return(rag.ChatResponse{Answer: rag.ApologyAnswer, Mode: rag.ModeError, Sources: []string{}, Reason: rag.ReasonGenerationFailed})
			},
			want: rag.ChatResponse{Answer: rag.ApologyAnswer, Mode: rag.ModeError, Sources: []string{}, Reason: rag.ReasonGenerationFailed},
		},
		{
			name:      "empty question",
			req:       service.ChatRequest{Question: ""},
			mockSetup: func() {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "question"
			},
		},
		{
			name:      "whitespace question",
			req:       service.ChatRequest{Question: " \t\n"},
			mockSetup: func() {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				return errors.Is(err, service.ErrInvalidInput)
			},
		},
		{
			name:      "question too long",
			req:       service.ChatRequest{Question: strings.Repeat("a", service.MaxQuestionLength+1)},
			mockSetup: func() {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "question"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			resp, err := svc.Ask(context.Background(), tt.req)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Ask() expected error, got nil")
					return
				}
				if tt.checkErrType != nil && !tt.checkErrType(err) {
					t.Errorf("Ask() error type mismatch: %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Ask() unexpected error: %v", err)
				return
			}
			if resp.Answer != tt.want.Answer || resp.Mode != tt.want.Mode || resp.Reason != tt.want.Reason {
				t.Errorf("Ask() = %+v, want %+v", resp, tt.want)
			}
			if len(resp.Sources) != len(tt.want.Sources) {
				t.Errorf("Ask() sources = %v, want %v", resp.Sources, tt.want.Sources)
			}
		})
	}
}

func TestChatService_Ask_MaxLengthAccepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := ragmocks.NewMockEngine(ctrl)
	svc := service.NewChatService(mockEngine)

	// Multi-byte runes count once each.
	question := strings.Repeat("é", service.MaxQuestionLength)
	mockEngine.EXPECT().Ask(gomock.Any(), question).Return(rag.ChatResponse{Mode: rag.ModeGeneral, Sources: []string{}})

	if _, err := svc.Ask(context.Background(), service.ChatRequest{Question: question}); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
}

func TestChatService_Ask_WithLogger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := ragmocks.NewMockEngine(ctrl)
	svc := service.NewChatService(mockEngine)

	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := contextutil.WithLogger(context.Background(), logger)

	mockEngine.EXPECT().
		Ask(gomock.Any(), "test").
		Return(rag.ChatResponse{Answer: "response", Mode: rag.ModeGeneral, Sources: []string{}, Reason: rag.ReasonLowRelevance})

	if _, err := svc.Ask(ctx, service.ChatRequest{Question: "test"}); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !strings.Contains(buf.String(), "question answered") {
		t.Errorf("request logger was not used, got %q", buf.String())
	}
}
