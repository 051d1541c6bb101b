package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hr-rag-bot/internal/indexer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngester struct {
	release chan struct{}
	calls   chan bool
	err     error
}

func (f *fakeIngester) IngestFolder(ctx context.Context, force bool) (indexer.IngestStats, error) {
	f.calls <- force
	if f.release != nil {
		<-f.release
	}
	return indexer.IngestStats{FilesSeen: 1}, f.err
}

func (h *IngestHandler) waitIdle(t *testing.T) {
	t.Helper()
	h.mu.Lock()
	done := h.done
	h.mu.Unlock()
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ingestion run did not finish")
	}
}

func TestIngestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		err       error
		wantForce bool
	}{
		{name: "incremental run", target: "/api/ingest"},
		{name: "forced run", target: "/api/ingest?force=true", wantForce: true},
		{name: "run failing still accepted", target: "/api/ingest", err: errors.New("1 file failed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing := &fakeIngester{calls: make(chan bool, 1), err: tt.err}
			handler := NewIngestHandler(ing)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.target, nil))

			assert.Equal(t, http.StatusAccepted, w.Code)
			assert.Contains(t, w.Body.String(), `"status":"accepted"`)

			select {
			case force := <-ing.calls:
				assert.Equal(t, tt.wantForce, force)
			case <-time.After(5 * time.Second):
				t.Fatal("IngestFolder was not called")
			}
			handler.waitIdle(t)
		})
	}
}

func TestIngestHandler_RejectsConcurrentRun(t *testing.T) {
	ing := &fakeIngester{calls: make(chan bool, 2), release: make(chan struct{})}
	handler := NewIngestHandler(ing)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/ingest", nil))
	require.Equal(t, http.StatusAccepted, first.Code)
	<-ing.calls

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/ingest", nil))
	assert.Equal(t, http.StatusConflict, second.Code)

	close(ing.release)
	handler.waitIdle(t)

	ing.release = nil
	third := httptest.NewRecorder()
	handler.ServeHTTP(third, httptest.NewRequest(http.MethodPost, "/api/ingest", nil))
	assert.Equal(t, http.StatusAccepted, third.Code)
	<-ing.calls
	handler.waitIdle(t)
}

func TestIngestHandler_MethodNotAllowed(t *testing.T) {
	handler := NewIngestHandler(&fakeIngester{calls: make(chan bool, 1)})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ingest", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
