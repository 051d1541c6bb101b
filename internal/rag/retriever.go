package rag

import (
	"context"
	"fmt"
	"strings"

	"hr-rag-bot/internal/contextutil"
	"hr-rag-bot/internal/vectorstore"
)

// retrievalFields are the only payload fields fetched for a question.
var retrievalFields = []string{vectorstore.FieldContent, vectorstore.FieldSource}

// Retriever looks up the policy chunks closest to a question.
type Retriever struct {
	embedder   Embedder
	searcher   Searcher
	collection string
}

// NewRetriever creates a new Retriever.
func NewRetriever(embedder Embedder, searcher Searcher, collection string) *Retriever {
	return &Retriever{
		embedder:   embedder,
		searcher:   searcher,
		collection: collection,
	}
}

// Retrieve embeds the question and fetches the k nearest chunks. It does not
// return an error: failures are reported through Status and Err with an
// empty context, a zero score and no sources.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) Retrieval {
	logger := contextutil.LoggerFromContext(ctx)

	vec, err := r.embedder.EmbedText(ctx, question)
	if err != nil {
		logger.WarnContext(ctx, "failed to embed question", "error", err)
		return Retrieval{Status: StatusFailed, Err: fmt.Errorf("failed to embed question: %w", err)}
	}

	results, err := r.searcher.Search(ctx, r.collection, vec, k, retrievalFields)
	if err != nil {
		logger.WarnContext(ctx, "failed to search vector store", "error", err)
		return Retrieval{Status: StatusFailed, Err: fmt.Errorf("failed to search vector store: %w", err)}
	}

	if len(results) == 0 {
		logger.InfoContext(ctx, "no search results found")
		return Retrieval{Status: StatusEmpty}
	}

	contents := make([]string, 0, len(results))
	var sources []string
	seen := make(map[string]bool)
	score := 0.0

	for _, result := range results {
		contents = append(contents, vectorstore.PayloadString(result.Payload, vectorstore.FieldContent))

		if source := vectorstore.PayloadString(result.Payload, vectorstore.FieldSource); source != "" && !seen[source] {
			seen[source] = true
			sources = append(sources, source)
		}

		score = max(score, float64(result.Score))
	}

	logger.DebugContext(ctx, "retrieved context", "results", len(results), "top_score", score, "sources", sources)

	return Retrieval{
		Context: strings.TrimSpace(strings.Join(contents, "\n")),
		Score:   score,
		Sources: sources,
		Status:  StatusFound,
	}
}
