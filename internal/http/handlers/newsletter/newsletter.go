// Package newsletter реализует HTTP-обработчик подписки на рассылку.
package newsletter

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
	msgSuccess   = "Successfully subscribed to our newsletter!"
	msgDuplicate = "Email is already subscribed to our newsletter."
	msgInvalid   = "Invalid email address"
	msgFailed    = "Failed to subscribe to newsletter"
)

// Response ответ на подписку.
type Response struct {
	response.Response
	DatabaseStored bool `json:"databaseStored"`
}

// Service описывает подписку.
type Service interface {
	Subscribe(ctx context.Context, email string) (leads.Result, error)
}

// Handler обрабатывает POST /api/newsletter.
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
// @Summary Подписка на рассылку
// @Tags Leads
// @Accept  json
// @Produce  json
// @Param request body models.NewNewsletter true "Адрес"
// @Success 200 {object} Response
// @Failure 400 {object} response.Response "Некорректный адрес"
// @Failure 409 {object} response.ErrorResponse "Уже подписан"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/newsletter [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.newsletter"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.NewNewsletter
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgInvalid))
		return
	}
	req.Email = models.NormalizeEmail(req.Email)

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Info("validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(msgInvalid, verrs))
			return
		}
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(msgFailed))
		return
	}

	res, err := h.service.Subscribe(r.Context(), req.Email)
	if errors.Is(err, leads.ErrAlreadySubscribed) {
		log.Info("email already subscribed")
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error(msgDuplicate))
		return
	}
	if err != nil {
		log.Error("failed to subscribe", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(msgFailed))
		return
	}

	log.Info("newsletter subscription accepted", slog.Bool("stored", res.Stored))
	render.JSON(w, r, Response{
		Response:       response.OK(msgSuccess),
		DatabaseStored: res.Stored,
	})
}
