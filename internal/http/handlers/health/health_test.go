package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		ping           error
		wantStatusCode int
		wantConnected  bool
		wantStatus     string
	}{
		{name: "healthy", wantStatusCode: http.StatusOK, wantConnected: true, wantStatus: "ok"},
		{name: "storage down", ping: errors.New("connection refused"), wantStatusCode: http.StatusServiceUnavailable, wantStatus: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(log, pingFunc(func(context.Context) error { return tt.ping }), "postgresql", true)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantConnected, got.Database.Connected)
			assert.Equal(t, "postgresql", got.Database.Type)
			assert.True(t, got.Supabase.Configured)
			if tt.ping != nil {
				assert.Equal(t, "connection refused", got.Database.Error)
			}
		})
	}
}
