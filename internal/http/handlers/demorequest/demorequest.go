// Package demorequest реализует HTTP-обработчик заявки на демо, показ
// или аудит, которую собирает трёхшаговая форма.
package demorequest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
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
	msgSuccess = "Thank you for your request! We'll contact you within one business day to schedule your demo."
	msgInvalid = "Invalid form data"
	msgFailed  = "Failed to submit request. Please try again or contact us directly."
)

// Response ответ на заявку.
type Response struct {
	response.Response
	DatabaseStored bool `json:"databaseStored"`
}

// Service описывает приём заявки.
type Service interface {
	SubmitRequest(ctx context.Context, in models.NewRequest, meta models.RequestMeta) leads.Result
}

// Handler обрабатывает POST /api/request.
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
// @Summary Заявка на демо
// @Description Сохраняет заявку вместе с IP и User-Agent клиента и уведомляет команду.
// @Tags Leads
// @Accept  json
// @Produce  json
// @Param request body models.NewRequest true "Заявка"
// @Success 200 {object} Response
// @Failure 400 {object} response.Response "Ошибка валидации"
// @Router /api/request [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.demorequest"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.NewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgInvalid))
		return
	}
	req.Normalize()

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

	meta := models.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}
	res := h.service.SubmitRequest(r.Context(), req, meta)

	log.Info("request accepted", slog.Bool("stored", res.Stored), slog.String("types", req.RequestTypes))
	render.JSON(w, r, Response{
		Response:       response.OK(msgSuccess),
		DatabaseStored: res.Stored,
	})
}

// clientIP адрес клиента без порта. За прокси RemoteAddr уже переписан
// middleware.RealIP.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
