package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-rag-bot/internal/rag"
	"hr-rag-bot/internal/service"
)

type fakeChat struct {
	questions []string
	resp      rag.ChatResponse
	err       error
}

func (f *fakeChat) Ask(_ context.Context, req service.ChatRequest) (rag.ChatResponse, error) {
	f.questions = append(f.questions, req.Question)
	return f.resp, f.err
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func sized(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_AskFlow(t *testing.T) {
	chat := &fakeChat{resp: rag.ChatResponse{
		Answer:  "You get 20 days.",
		Mode:    rag.ModeRAG,
		Sources: []string{"leave.pdf"},
	}}
	m := sized(New(context.Background(), chat))
	m = typeText(t, m, "What is the leave policy?")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.waiting)
	assert.Equal(t, "", m.input.Value())

	msg := cmd()
	next, _ = m.Update(msg)
	m = next.(Model)

	assert.False(t, m.waiting)
	assert.Equal(t, []string{"What is the leave policy?"}, chat.questions)
	require.Len(t, m.history, 1)

	out := renderHistory(m.history)
	assert.Contains(t, out, "You get 20 days.")
	assert.Contains(t, out, "RAG")
	assert.Contains(t, out, "leave.pdf")
	assert.Contains(t, m.status, "RAG")
}

func TestModel_GeneralAnswerHasNoSources(t *testing.T) {
	out := renderHistory([]exchange{{
		question: "What's the weather today?",
		resp:     rag.ChatResponse{Answer: "I cannot check the weather.", Mode: rag.ModeGeneral, Sources: []string{}},
	}})
	assert.Contains(t, out, "GENERAL")
	assert.NotContains(t, out, "Sources:")
}

func TestModel_ValidationErrorShown(t *testing.T) {
	chat := &fakeChat{err: &service.ValidationError{Field: "question", Message: "too long"}}
	m := sized(New(context.Background(), chat))
	m = typeText(t, m, "hello")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next, _ := m.Update(cmd())
	m = next.(Model)

	assert.True(t, strings.HasPrefix(m.status, "Error:"))
	assert.Contains(t, renderHistory(m.history), "too long")
}

func TestModel_Exit(t *testing.T) {
	for _, word := range []string{"exit", "EXIT", "quit"} {
		t.Run(word, func(t *testing.T) {
			chat := &fakeChat{}
			m := typeText(t, sized(New(context.Background(), chat)), word)
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			assert.True(t, isQuit(cmd))
			assert.Empty(t, chat.questions)
		})
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := New(context.Background(), &fakeChat{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuit(cmd))
}

func TestModel_EmptyEnterIgnored(t *testing.T) {
	chat := &fakeChat{}
	m := sized(New(context.Background(), chat))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, chat.questions)
}

func TestModel_View(t *testing.T) {
	m := New(context.Background(), &fakeChat{})
	assert.Equal(t, "Loading...", m.View())

	m = sized(m)
	view := m.View()
	assert.Contains(t, view, "HR Policy Assistant")
	assert.Contains(t, view, "No questions yet.")
}
