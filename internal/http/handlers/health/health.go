// Package health отдаёт состояние хранилища и настроек аутентификации.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
)

const pingTimeout = 2 * time.Second

// Pinger проверка доступности хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Database состояние хранилища.
type Database struct {
	Connected bool   `json:"connected"`
	Type      string `json:"type"`
	Error     string `json:"error,omitempty"`
}

// Supabase настроен ли Supabase Auth.
type Supabase struct {
	Configured bool `json:"configured"`
}

// Response ответ health-check.
type Response struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  Database  `json:"database"`
	Supabase  Supabase  `json:"supabase"`
}

// Handler обрабатывает GET /health и GET /api/health/database.
type Handler struct {
	log         *slog.Logger
	db          Pinger
	storageType string
	supabase    bool
	now         func() time.Time
}

// New создает новый экземпляр Handler. storageType попадает в ответ как есть
// ("postgresql" или "memory").
func New(log *slog.Logger, db Pinger, storageType string, supabaseConfigured bool) *Handler {
	return &Handler{
		log:         log,
		db:          db,
		storageType: storageType,
		supabase:    supabaseConfigured,
		now:         time.Now,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce  json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	resp := Response{
		Status:    "ok",
		Timestamp: h.now().UTC(),
		Database:  Database{Connected: true, Type: h.storageType},
		Supabase:  Supabase{Configured: h.supabase},
	}
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("storage ping failed", slog.String("op", op), sl.Err(err))
		resp.Status = "degraded"
		resp.Database.Connected = false
		resp.Database.Error = err.Error()
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	render.JSON(w, r, resp)
}
