// Package quizzes HTTP-обработчики встроенных тестов: список, один тест
// без ответов и подсчёт результата.
package quizzes

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lead-capture/internal/http/response"
	"github.com/magabrotheeeer/lead-capture/internal/lib/quiz"
	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
)

// Catalog источник тестов.
type Catalog interface {
	All() []quiz.Quiz
	Get(id int) (quiz.Quiz, bool)
}

// ListResponse список тестов.
type ListResponse struct {
	response.Response
	Quizzes []quiz.PublicQuiz `json:"quizzes"`
}

// GetResponse один тест.
type GetResponse struct {
	response.Response
	Quiz *quiz.PublicQuiz `json:"quiz,omitempty"`
}

// ScoreRequest ответы проходящего. FinishedAt по умолчанию текущее время.
type ScoreRequest struct {
	Answers    []int      `json:"answers"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// ScoreResponse результат.
type ScoreResponse struct {
	response.Response
	Result *quiz.Result `json:"result,omitempty"`
}

// Handler обработчики /api/quizzes.
type Handler struct {
	log     *slog.Logger
	catalog Catalog
	now     func() time.Time
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, catalog Catalog) *Handler {
	return &Handler{
		log:     log,
		catalog: catalog,
		now:     time.Now,
	}
}

// List godoc
// @Summary Список тестов
// @Tags Quizzes
// @Produce  json
// @Success 200 {object} ListResponse
// @Router /api/quizzes [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all := h.catalog.All()
	out := make([]quiz.PublicQuiz, 0, len(all))
	for _, q := range all {
		out = append(out, q.Public())
	}
	render.JSON(w, r, ListResponse{Response: response.OK(""), Quizzes: out})
}

// Get godoc
// @Summary Тест без правильных ответов
// @Tags Quizzes
// @Produce  json
// @Param id path int true "ID теста"
// @Success 200 {object} GetResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/quizzes/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	q, ok := h.lookup(w, r)
	if !ok {
		return
	}
	public := q.Public()
	render.JSON(w, r, GetResponse{Response: response.OK(""), Quiz: &public})
}

// Score godoc
// @Summary Подсчёт результата
// @Tags Quizzes
// @Accept  json
// @Produce  json
// @Param id path int true "ID теста"
// @Param request body ScoreRequest true "Ответы"
// @Success 200 {object} ScoreResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/quizzes/{id}/score [post]
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quizzes.score"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid quiz answers"))
		return
	}

	finished := h.now()
	if req.FinishedAt != nil {
		finished = *req.FinishedAt
	}
	started := req.StartedAt
	if started.IsZero() {
		started = finished
	}

	res := quiz.Score(q, req.Answers, started, finished)
	log.Info("quiz scored", slog.Int("quiz_id", q.ID), slog.Int("score", res.Score), slog.Bool("passed", res.Passed))
	render.JSON(w, r, ScoreResponse{Response: response.OK(""), Result: &res})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (quiz.Quiz, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid quiz id"))
		return quiz.Quiz{}, false
	}
	q, ok := h.catalog.Get(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("Quiz not found"))
		return quiz.Quiz{}, false
	}
	return q, true
}
