// Package login реализует HTTP-обработчик входа по имени и паролю.
//
// При успехе возвращается публичная часть пользователя и JWT. Ошибка
// не сообщает, что именно неверно: имя или пароль.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lead-capture/internal/http/response"
	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
	"github.com/magabrotheeeer/lead-capture/internal/models"
	"github.com/magabrotheeeer/lead-capture/internal/services/auth"
)

const (
	msgSuccess  = "Login successful"
	msgRequired = "Username and password are required"
	msgInvalid  = "Invalid credentials"
	msgFailed   = "Failed to login"
)

// Response ответ на успешный вход.
type Response struct {
	response.Response
	User  *models.PublicUser `json:"user,omitempty"`
	Token string             `json:"token,omitempty"`
}

// Service описывает вход.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.User, string, error)
}

// Handler обрабатывает POST /api/auth/login.
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
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по имени и паролю. Возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.Credentials true "Учетные данные пользователя"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Не заполнены поля"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgRequired))
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		log.Info("missing credentials")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgRequired))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Info("invalid credentials")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(msgInvalid))
		return
	}
	if err != nil {
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(msgFailed))
		return
	}

	public := user.Public()
	log.Info("login success", slog.String("user_id", user.ID))
	render.JSON(w, r, Response{
		Response: response.OK(msgSuccess),
		User:     &public,
		Token:    token,
	})
}
