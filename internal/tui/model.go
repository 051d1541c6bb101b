package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hr-rag-bot/internal/rag"
	"hr-rag-bot/internal/service"
)

// ChatPort is the TUI-facing subset of the chat service.
type ChatPort interface {
	Ask(ctx context.Context, req service.ChatRequest) (rag.ChatResponse, error)
}

// exchange is one question and its answer.
type exchange struct {
	question string
	resp     rag.ChatResponse
	err      error
}

// answerMsg carries a finished answer back into Update.
type answerMsg struct {
	exchange
}

// Model is the Bubble Tea model for the terminal chat.
type Model struct {
	ctx      context.Context
	chat     ChatPort
	input    textinput.Model
	viewport viewport.Model
	history  []exchange
	status   string
	waiting  bool
	ready    bool
}

// New creates a new chat model. ctx bounds every question asked.
func New(ctx context.Context, chat ChatPort) Model {
	ti := textinput.New()
	ti.Prompt = "You: "
	ti.Placeholder = "Ask about HR policy (type exit to quit)"
	ti.Focus()
	ti.CharLimit = service.MaxQuestionLength
	vp := viewport.New(0, 0)
	return Model{ctx: ctx, chat: chat, input: ti, viewport: vp, status: "Ready."}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input box, spacer
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil

	case answerMsg:
		m.waiting = false
		m.history = append(m.history, msg.exchange)
		switch {
		case msg.err != nil:
			m.status = "Error: " + msg.err.Error()
		default:
			m.status = fmt.Sprintf("Answered (%s).", msg.resp.Mode)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			q := strings.TrimSpace(m.input.Value())
			if isExit(q) {
				return m, tea.Quit
			}
			if q == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			return m, m.ask(q)
		}
		if msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the header, transcript, input box and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("HR Policy Assistant")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.chat.Ask(m.ctx, service.ChatRequest{Question: question})
		return answerMsg{exchange{question: question, resp: resp, err: err}}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderHistory(m.history))
	m.viewport.GotoBottom()
}

func renderHistory(history []exchange) string {
	if len(history) == 0 {
		return "No questions yet."
	}
	var b strings.Builder
	for i, ex := range history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + ex.question))
		b.WriteString("\n")
		if ex.err != nil {
			b.WriteString(errorStyle.Render(ex.err.Error()))
			continue
		}
		b.WriteString("Bot: " + ex.resp.Answer)
		b.WriteString("\n")
		meta := "Mode: " + string(ex.resp.Mode)
		if len(ex.resp.Sources) > 0 {
			meta += "  Sources: " + strings.Join(ex.resp.Sources, ", ")
		}
		b.WriteString(metaStyle.Render(meta))
	}
	return b.String()
}

func isExit(s string) bool {
	switch strings.ToLower(s) {
	case "exit", "quit":
		return true
	}
	return false
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	metaStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
