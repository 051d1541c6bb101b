package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	vsmocks "hr-rag-bot/internal/vectorstore/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(context.Context) error {
	return p.err
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		exists     bool
		existsErr  error
		db         Pinger
		wantStatus int
		wantState  string
		wantChecks map[string]string
		wantIssues []string
	}{
		{
			name:       "healthy",
			exists:     true,
			db:         fakePinger{},
			wantStatus: http.StatusOK,
			wantState:  "healthy",
			wantChecks: map[string]string{"vector_store": "ok", "database": "ok"},
		},
		{
			name:       "healthy without database",
			exists:     true,
			wantStatus: http.StatusOK,
			wantState:  "healthy",
			wantChecks: map[string]string{"vector_store": "ok"},
		},
		{
			name:       "database down is degraded",
			exists:     true,
			db:         fakePinger{err: errors.New("disk I/O error")},
			wantStatus: http.StatusOK,
			wantState:  "degraded",
			wantChecks: map[string]string{"vector_store": "ok", "database": "error"},
			wantIssues: []string{"database_unavailable"},
		},
		{
			name:       "missing collection",
			exists:     false,
			db:         fakePinger{},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
			wantChecks: map[string]string{"vector_store": "error", "database": "ok"},
			wantIssues: []string{"vector_store_unavailable"},
		},
		{
			name:       "vector store unreachable",
			existsErr:  errors.New("connection refused"),
			db:         fakePinger{},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
			wantChecks: map[string]string{"vector_store": "error", "database": "ok"},
			wantIssues: []string{"vector_store_unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			vs := vsmocks.NewMockVectorStore(ctrl)
			vs.EXPECT().CollectionExists(gomock.Any(), "hr-policy-index").Return(tt.exists, tt.existsErr)

			handler := NewHealthHandler(vs, tt.db, "hr-policy-index")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp HealthResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantState, resp.Status)
			assert.Equal(t, tt.wantChecks, resp.Checks)
			assert.Equal(t, tt.wantIssues, resp.Issues)
			assert.NotEmpty(t, resp.Timestamp)
		})
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewHealthHandler(vsmocks.NewMockVectorStore(ctrl), nil, "c")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
