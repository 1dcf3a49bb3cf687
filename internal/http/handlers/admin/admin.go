// Package admin отдаёт сохранённые заявки и подписки сырыми массивами.
package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lead-capture/internal/http/response"
	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
	"github.com/magabrotheeeer/lead-capture/internal/models"
)

// Service описывает чтение всех записей.
type Service interface {
	Contacts(ctx context.Context) ([]models.ContactSubmission, error)
	Newsletter(ctx context.Context) ([]models.NewsletterSubscription, error)
	Requests(ctx context.Context) ([]models.Request, error)
}

// Handler отдаёт одну коллекцию.
type Handler[T any] struct {
	log     *slog.Logger
	op      string
	failMsg string
	load    func(ctx context.Context) ([]T, error)
}

// Contacts godoc
// @Summary Сообщения из формы обратной связи
// @Tags Admin
// @Produce  json
// @Success 200 {array} models.ContactSubmission
// @Failure 500 {object} response.ErrorResponse
// @Router /api/admin/contacts [get]
func Contacts(log *slog.Logger, service Service) *Handler[models.ContactSubmission] {
	return &Handler[models.ContactSubmission]{
		log:     log,
		op:      "handlers.admin.contacts",
		failMsg: "Failed to fetch contact submissions",
		load:    service.Contacts,
	}
}

// Newsletter godoc
// @Summary Подписки на рассылку
// @Tags Admin
// @Produce  json
// @Success 200 {array} models.NewsletterSubscription
// @Failure 500 {object} response.ErrorResponse
// @Router /api/admin/newsletter [get]
func Newsletter(log *slog.Logger, service Service) *Handler[models.NewsletterSubscription] {
	return &Handler[models.NewsletterSubscription]{
		log:     log,
		op:      "handlers.admin.newsletter",
		failMsg: "Failed to fetch newsletter subscriptions",
		load:    service.Newsletter,
	}
}

// Requests godoc
// @Summary Заявки на демо
// @Tags Admin
// @Produce  json
// @Success 200 {array} models.Request
// @Failure 500 {object} response.ErrorResponse
// @Router /api/admin/requests [get]
func Requests(log *slog.Logger, service Service) *Handler[models.Request] {
	return &Handler[models.Request]{
		log:     log,
		op:      "handlers.admin.requests",
		failMsg: "Failed to fetch requests",
		load:    service.Requests,
	}
}

func (h *Handler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", h.op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.load(r.Context())
	if err != nil {
		log.Error("failed to load records", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(h.failMsg))
		return
	}
	if items == nil {
		items = []T{}
	}

	log.Debug("records loaded", slog.Int("count", len(items)))
	render.JSON(w, r, items)
}
