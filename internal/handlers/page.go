package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"hr-rag-bot/internal/contextutil"
	"hr-rag-bot/internal/rag"
	"hr-rag-bot/internal/service"
)

// PageHandler serves the browser chat page.
type PageHandler struct {
	chatService service.ChatService
	markdown    goldmark.Markdown
	template    *template.Template
}

// chatPageData holds template data for the chat page.
type chatPageData struct {
	Question string
	Answer   template.HTML
	Mode     rag.Mode
	Sources  []string
	Error    string
}

var chatPageTemplate = template.Must(template.New("chat").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>HR Policy Assistant</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 760px;
      line-height: 1.6;
      background: #f8fafc;
      color: #0f172a;
    }
    h1 {
      margin-top: 0;
      font-size: 1.75rem;
    }
    form {
      display: flex;
      gap: 0.5rem;
      margin-bottom: 1.5rem;
    }
    input[type=text] {
      flex: 1;
      padding: 0.6rem 0.8rem;
      border: 1px solid #cbd5e1;
      border-radius: 8px;
      font-size: 1rem;
    }
    button {
      padding: 0.6rem 1.2rem;
      border: 0;
      border-radius: 8px;
      background: #2563eb;
      color: #fff;
      font-size: 1rem;
      cursor: pointer;
    }
    article {
      background: #fff;
      border: 1px solid #e2e8f0;
      border-radius: 12px;
      padding: 1.25rem 1.5rem;
    }
    .question {
      color: #475569;
      font-style: italic;
    }
    .meta {
      color: #64748b;
      font-size: 0.9rem;
      margin-top: 1rem;
    }
    .mode {
      display: inline-block;
      padding: 0 0.5rem;
      border-radius: 6px;
      background: #e0e7ff;
      font-weight: 600;
    }
    .error {
      color: #b91c1c;
    }
  </style>
</head>
<body>
  <h1>HR Policy Assistant</h1>
  <form method="post" action="/chat">
    <input type="text" name="question" value="{{.Question}}" placeholder="Ask about leave, benefits, conduct..." autofocus>
    <button type="submit">Ask</button>
  </form>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  {{if .Mode}}
  <article>
    <p class="question">{{.Question}}</p>
    {{.Answer}}
    <p class="meta">
      <span class="mode">{{.Mode}}</span>
      {{if .Sources}}Sources: {{range $i, $s := .Sources}}{{if $i}}, {{end}}{{$s}}{{end}}{{end}}
    </p>
  </article>
  {{end}}
</body>
</html>`))

// NewPageHandler creates a new PageHandler.
func NewPageHandler(chatService service.ChatService) *PageHandler {
	return &PageHandler{
		chatService: chatService,
		// Raw HTML in model output is dropped.
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
		),
		template: chatPageTemplate,
	}
}

// ServeHTTP renders the empty chat page on GET and an answer on POST.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		h.render(w, r, http.StatusOK, chatPageData{})
		return
	case http.MethodPost:
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "invalid form body", "error", err)
		h.render(w, r, http.StatusBadRequest, chatPageData{Error: "Invalid form submission."})
		return
	}

	question := r.PostFormValue("question")
	resp, err := h.chatService.Ask(ctx, service.ChatRequest{Question: question})
	if err != nil {
		logger.WarnContext(ctx, "question rejected", "error", err)
		h.render(w, r, http.StatusBadRequest, chatPageData{
			Question: question,
			Error:    "Please enter a question of at most 2000 characters.",
		})
		return
	}

	answer, err := h.renderMarkdown(resp.Answer)
	if err != nil {
		logger.ErrorContext(ctx, "failed to render answer", "error", err)
		answer = template.HTML(template.HTMLEscapeString(resp.Answer))
	}

	h.render(w, r, http.StatusOK, chatPageData{
		Question: question,
		Answer:   answer,
		Mode:     resp.Mode,
		Sources:  resp.Sources,
	})
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, data chatPageData) {
	var buf bytes.Buffer
	if err := h.template.Execute(&buf, data); err != nil {
		ctx := r.Context()
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to execute chat template", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *PageHandler) renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
