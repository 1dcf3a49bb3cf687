// Package signup реализует HTTP-обработчик регистрации пользователя.
package signup

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
	"github.com/magabrotheeeer/lead-capture/internal/services/auth"
)

const (
	msgSuccess = "Account created successfully"
	msgInvalid = "Invalid form data"
	msgExists  = "Username already exists"
	msgFailed  = "Failed to create account"
)

// Response ответ на успешную регистрацию.
type Response struct {
	response.Response
	User *User `json:"user,omitempty"`
}

// User данные созданного пользователя.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Service описывает регистрацию.
type Service interface {
	Signup(ctx context.Context, in models.NewUser) (*models.User, error)
}

// Handler обрабатывает POST /api/auth/signup.
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
// @Summary Регистрация пользователя
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.NewUser true "Данные пользователя"
// @Success 200 {object} Response
// @Failure 400 {object} response.Response "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Имя занято"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.NewUser
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

	user, err := h.service.Signup(r.Context(), req)
	switch {
	case errors.Is(err, auth.ErrUserExists):
		log.Info("username already exists", slog.String("username", req.Username))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error(msgExists))
		return
	case errors.Is(err, auth.ErrSignupRejected):
		log.Info("signup rejected by auth provider", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgInvalid))
		return
	case err != nil:
		log.Error("signup failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(msgFailed))
		return
	}

	log.Info("user created", slog.String("user_id", user.ID))
	render.JSON(w, r, Response{
		Response: response.OK(msgSuccess),
		User:     &User{ID: user.ID, Username: user.Username},
	})
}
