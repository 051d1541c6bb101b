package rag_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hr-rag-bot/internal/llm"
	"hr-rag-bot/internal/rag"
	"hr-rag-bot/internal/rag/mocks"
	"hr-rag-bot/internal/vectorstore"
)

var testOptions = rag.Options{
	Threshold:    0.55,
	TopK:         3,
	SystemPrompt: "You are a helpful AI assistant.",
	MaxTokens:    500,
	Temperature:  0.4,
}

type engineFixture struct {
	engine    rag.Engine
	embedder  *mocks.MockEmbedder
	searcher  *mocks.MockSearcher
	completer *mocks.MockCompleter
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &engineFixture{
		embedder:  mocks.NewMockEmbedder(ctrl),
		searcher:  mocks.NewMockSearcher(ctrl),
		completer: mocks.NewMockCompleter(ctrl),
	}
	retriever := rag.NewRetriever(f.embedder, f.searcher, "hr-policy-index")
	f.engine = rag.NewEngine(retriever, f.completer, testOptions)
	return f
}

func (f *engineFixture) expectSearch(results []vectorstore.SearchResult, err error) {
	f.embedder.EXPECT().EmbedText(gomock.Any(), gomock.Any()).Return([]float32{0.1, 0.2}, nil)
	f.searcher.EXPECT().Search(gomock.Any(), "hr-policy-index", gomock.Any(), 3, gomock.Any()).Return(results, err)
}

// captureCompletion records the messages of the single completion request.
func (f *engineFixture) captureCompletion(answer string, err error) *[]llm.Message {
	var captured []llm.Message
	f.completer.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), llm.ChatParams{MaxTokens: 500, Temperature: 0.4}).
		DoAndReturn(func(_ context.Context, messages []llm.Message, _ llm.ChatParams) (string, error) {
			captured = messages
			return answer, err
		})
	return &captured
}

func TestEngine_Ask_RAGMode(t *testing.T) {
	f := newEngineFixture(t)
	policy := "Employees receive 20 days of paid annual leave."
	f.expectSearch([]vectorstore.SearchResult{hit(0.81, policy, "leave.pdf")}, nil)
	messages := f.captureCompletion("  You get 20 days of paid leave.\n", nil)

	resp := f.engine.Ask(context.Background(), "What is the leave policy?")

	assert.Equal(t, rag.ChatResponse{
		Answer:  "You get 20 days of paid leave.",
		Mode:    rag.ModeRAG,
		Sources: []string{"leave.pdf"},
		Reason:  rag.ReasonRelevantContext,
	}, resp)

	require.Len(t, *messages, 2)
	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: "You are a helpful AI assistant."}, (*messages)[0])
	assert.Equal(t, llm.RoleUser, (*messages)[1].Role)
	assert.Equal(t, rag.BuildRAGPrompt(policy, "What is the leave policy?"), (*messages)[1].Content)
	assert.Contains(t, (*messages)[1].Content, policy)
}

func TestEngine_Ask_ThresholdIsInclusive(t *testing.T) {
	f := newEngineFixture(t)
	f.expectSearch([]vectorstore.SearchResult{hit(0.55, "Exactly at threshold.", "edge.pdf")}, nil)
	f.captureCompletion("ok", nil)

	resp := f.engine.Ask(context.Background(), "edge case")

	assert.Equal(t, rag.ModeRAG, resp.Mode)
	assert.Equal(t, []string{"edge.pdf"}, resp.Sources)
}

func TestEngine_Ask_GeneralMode(t *testing.T) {
	tests := []struct {
		name       string
		results    []vectorstore.SearchResult
		searchErr  error
		wantReason rag.Reason
	}{
		{
			name:       "low relevance",
			results:    []vectorstore.SearchResult{hit(0.10, "Employees receive 20 days of leave.", "leave.pdf")},
			wantReason: rag.ReasonLowRelevance,
		},
		{
			name:       "no results",
			results:    nil,
			wantReason: rag.ReasonNoResults,
		},
		{
			name:       "high score but blank context",
			results:    []vectorstore.SearchResult{hit(0.95, "   ", "blank.pdf")},
			wantReason: rag.ReasonNoResults,
		},
		{
			name:       "retrieval failure",
			searchErr:  errors.New("qdrant unavailable"),
			wantReason: rag.ReasonRetrievalFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t)
			f.expectSearch(tt.results, tt.searchErr)
			messages := f.captureCompletion("I can't check live weather, but here is how to find it.", nil)

			resp := f.engine.Ask(context.Background(), "What's the weather today?")

			assert.Equal(t, rag.ModeGeneral, resp.Mode)
			assert.Equal(t, tt.wantReason, resp.Reason)
			assert.NotNil(t, resp.Sources)
			assert.Empty(t, resp.Sources)
			assert.Equal(t, "I can't check live weather, but here is how to find it.", resp.Answer)
			assert.Equal(t, rag.BuildGeneralPrompt("What's the weather today?"), (*messages)[1].Content)
		})
	}
}

func TestEngine_Ask_EmbeddingFailureFallsBackToGeneral(t *testing.T) {
	f := newEngineFixture(t)
	f.embedder.EXPECT().EmbedText(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
	f.captureCompletion("general answer", nil)

	resp := f.engine.Ask(context.Background(), "What is the leave policy?")

	assert.Equal(t, rag.ModeGeneral, resp.Mode)
	assert.Equal(t, rag.ReasonRetrievalFailed, resp.Reason)
	assert.Empty(t, resp.Sources)
}

func TestEngine_Ask_ErrorMode(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		err    error
	}{
		{name: "completion failure", err: errors.New("500 internal server error")},
		{name: "empty completion", answer: "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t)
			f.expectSearch([]vectorstore.SearchResult{hit(0.81, "Employees receive 20 days of leave.", "leave.pdf")}, nil)
			f.captureCompletion(tt.answer, tt.err)

			resp := f.engine.Ask(context.Background(), "What is the leave policy?")

			assert.Equal(t, rag.ChatResponse{
				Answer:  rag.ApologyAnswer,
				Mode:    rag.ModeError,
				Sources: []string{},
				Reason:  rag.ReasonGenerationFailed,
			}, resp)
		})
	}
}

func TestEngine_Ask_RecoversPanic(t *testing.T) {
	f := newEngineFixture(t)
	f.expectSearch([]vectorstore.SearchResult{hit(0.81, "text", "leave.pdf")}, nil)
	f.completer.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, []llm.Message, llm.ChatParams) (string, error) {
			panic("unexpected nil response")
		})

	var resp rag.ChatResponse
	require.NotPanics(t, func() {
		resp = f.engine.Ask(context.Background(), "What is the leave policy?")
	})
	assert.Equal(t, rag.ModeError, resp.Mode)
	assert.Equal(t, rag.ApologyAnswer, resp.Answer)
	assert.Empty(t, resp.Sources)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		retrieval  rag.Retrieval
		wantMode   rag.Mode
		wantReason rag.Reason
	}{
		{
			name:       "above threshold",
			retrieval:  rag.Retrieval{Context: "c", Score: 0.9, Status: rag.StatusFound},
			wantMode:   rag.ModeRAG,
			wantReason: rag.ReasonRelevantContext,
		},
		{
			name:       "at threshold",
			retrieval:  rag.Retrieval{Context: "c", Score: 0.55, Status: rag.StatusFound},
			wantMode:   rag.ModeRAG,
			wantReason: rag.ReasonRelevantContext,
		},
		{
			name:       "just below threshold",
			retrieval:  rag.Retrieval{Context: "c", Score: 0.5499, Status: rag.StatusFound},
			wantMode:   rag.ModeGeneral,
			wantReason: rag.ReasonLowRelevance,
		},
		{
			name:       "empty",
			retrieval:  rag.Retrieval{Status: rag.StatusEmpty},
			wantMode:   rag.ModeGeneral,
			wantReason: rag.ReasonNoResults,
		},
		{
			name:       "failed",
			retrieval:  rag.Retrieval{Status: rag.StatusFailed, Err: errors.New("boom")},
			wantMode:   rag.ModeGeneral,
			wantReason: rag.ReasonRetrievalFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, reason := rag.Decide(tt.retrieval, 0.55)
			assert.Equal(t, tt.wantMode, mode)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}
