package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"hr-rag-bot/internal/handlers"
	"hr-rag-bot/internal/service"
	"hr-rag-bot/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService     service.ChatService
	DocumentService service.DocumentService
	VectorStore     vectorstore.VectorStore
	Collection      string
	// DB is pinged by the health check. Optional.
	DB handlers.Pinger
	// Ingester enables POST /api/ingest when set.
	Ingester handlers.Ingester
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	page := handlers.NewPageHandler(deps.ChatService)
	r.Method(http.MethodGet, "/", page)
	r.Method(http.MethodPost, "/chat", page)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", handlers.NewAskHandler(deps.ChatService))
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.VectorStore, deps.DB, deps.Collection))
		if deps.DocumentService != nil {
			r.Method(http.MethodGet, "/documents", handlers.NewDocumentsHandler(deps.DocumentService))
		}
		if deps.Ingester != nil {
			r.Method(http.MethodPost, "/ingest", handlers.NewIngestHandler(deps.Ingester))
		}
	})

	return r
}
