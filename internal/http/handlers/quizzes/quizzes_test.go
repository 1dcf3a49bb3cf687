package quizzes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lead-capture/internal/lib/quiz"
)

func newRouter(t *testing.T) (*chi.Mux, *Handler) {
	t.Helper()
	catalog, err := quiz.Load()
	require.NoError(t, err)

	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), catalog)
	h.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Get("/api/quizzes", h.List)
	r.Get("/api/quizzes/{id}", h.Get)
	r.Post("/api/quizzes/{id}/score", h.Score)
	return r, h
}

func TestList(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quizzes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correctAnswer")

	var got ListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.True(t, got.Success)
	assert.Len(t, got.Quizzes, 2)
}

func TestGet(t *testing.T) {
	r, _ := newRouter(t)

	tests := []struct {
		name           string
		path           string
		wantStatusCode int
	}{
		{name: "existing", path: "/api/quizzes/2", wantStatusCode: http.StatusOK},
		{name: "unknown", path: "/api/quizzes/999", wantStatusCode: http.StatusNotFound},
		{name: "not a number", path: "/api/quizzes/abc", wantStatusCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.NotContains(t, rec.Body.String(), "correctAnswer")
		})
	}
}

func TestScore(t *testing.T) {
	r, _ := newRouter(t)

	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantScore      int
		wantPassed     bool
		wantTime       int
	}{
		{
			name:           "passing",
			body:           `{"answers":[1,2,1,0,0],"startedAt":"2024-01-01T11:50:00Z"}`,
			wantStatusCode: http.StatusOK,
			wantScore:      80,
			wantPassed:     true,
			wantTime:       10,
		},
		{
			name:           "failing with explicit finish",
			body:           `{"answers":[1,2,0,0,0],"startedAt":"2024-01-01T11:00:00Z","finishedAt":"2024-01-01T11:03:00Z"}`,
			wantStatusCode: http.StatusOK,
			wantScore:      60,
			wantTime:       3,
		},
		{
			name:           "no answers",
			body:           `{}`,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "broken body",
			body:           `{"answers":"x"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quizzes/2/score", bytes.NewBufferString(tt.body)))

			require.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantStatusCode != http.StatusOK {
				return
			}
			var got ScoreResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			require.NotNil(t, got.Result)
			assert.Equal(t, tt.wantScore, got.Result.Score)
			assert.Equal(t, tt.wantPassed, got.Result.Passed)
			assert.Equal(t, tt.wantTime, got.Result.TimeSpent)
			assert.Equal(t, 5, got.Result.TotalQuestions)
		})
	}
}
