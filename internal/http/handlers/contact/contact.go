// Package contact реализует HTTP-обработчик формы обратной связи.
//
// Заявка принимается, даже если хранилище недоступно: в ответе тогда
// databaseStored=false.
package contact

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lead-capture/internal/http/response"
	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
	"github.com/magabrotheeeer/lead-capture/internal/lib/validation"
	"github.com/magabrotheeeer/lead-capture/internal/models"
	"github.com/magabrotheeeer/lead-capture/internal/services/leads"
)

const (
	msgSuccess = "Thank you for your message. We'll get back to you within one business day."
	msgInvalid = "Invalid form data"
)

// Response ответ на отправку формы.
type Response struct {
	response.Response
	DatabaseStored bool `json:"databaseStored"`
}

// Service описывает приём сообщения.
type Service interface {
	SubmitContact(ctx context.Context, in models.NewContact) leads.Result
}

// Handler обрабатывает POST /api/contact.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Форма обратной связи
// @Description Принимает сообщение, сохраняет его и отправляет уведомления. Сбой хранилища не приводит к ошибке.
// @Tags Leads
// @Accept  json
// @Produce  json
// @Param request body models.NewContact true "Сообщение"
// @Success 200 {object} Response
// @Failure 400 {object} response.Response "Ошибка валидации"
// @Router /api/contact [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.NewContact
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgInvalid))
		return
	}
	req.Normalize()

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to submit contact form"))
			return
		}
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(msgInvalid, verrs))
		return
	}

	res := h.service.SubmitContact(r.Context(), req)

	log.Info("contact form accepted", slog.Bool("stored", res.Stored))
	render.JSON(w, r, Response{
		Response:       response.OK(msgSuccess),
		DatabaseStored: res.Stored,
	})
}
