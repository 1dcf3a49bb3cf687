// Package me отдаёт владельца токена. Стоит за JWTMiddleware.
package me

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lead-capture/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lead-capture/internal/http/response"
	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
	"github.com/magabrotheeeer/lead-capture/internal/models"
	"github.com/magabrotheeeer/lead-capture/internal/services/auth"
)

// Response текущий пользователь.
type Response struct {
	response.Response
	User *models.PublicUser `json:"user,omitempty"`
}

// Service описывает поиск владельца токена.
type Service interface {
	Me(ctx context.Context, token string) (*models.User, error)
}

// Handler обрабатывает GET /api/auth/me.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Нет токена или он недействителен"
// @Failure 403 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, err := h.service.Me(r.Context(), middlewarectx.TokenFromContext(r.Context()))
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		log.Info("invalid token", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Invalid or expired token"))
		return
	case errors.Is(err, auth.ErrUserNotFound):
		log.Info("token owner not found")
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("Invalid token"))
		return
	case err != nil:
		log.Error("failed to load user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Failed to fetch user"))
		return
	}

	public := user.Public()
	render.JSON(w, r, Response{
		Response: response.OK(""),
		User:     &public,
	})
}
