// Package auth регистрация, вход и проверка JWT. Пароль проверяет
// Authenticator: локально через bcrypt или в Supabase Auth.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/lead-capture/internal/lib/jwt"
	"github.com/magabrotheeeer/lead-capture/internal/lib/metrics"
	"github.com/magabrotheeeer/lead-capture/internal/models"
	"github.com/magabrotheeeer/lead-capture/internal/storage"
)

var (
	// ErrInvalidCredentials неверное имя пользователя или пароль. Какое из
	// двух, наружу не сообщается.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists username или email уже заняты.
	ErrUserExists = errors.New("user already exists")
	// ErrSignupRejected провайдер отклонил регистрацию.
	ErrSignupRejected = errors.New("signup rejected")
	// ErrInvalidToken токен не прошёл проверку.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserNotFound токен валиден, но пользователя уже нет.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
}

// Authenticator хранит и проверяет пароли.
type Authenticator interface {
	// Register заводит учётные данные и возвращает хэш для локального
	// хранения (пустой, если пароль хранит провайдер).
	Register(ctx context.Context, in models.NewUser) (passwordHash string, err error)
	// Verify возвращает ErrInvalidCredentials при неверном пароле.
	Verify(ctx context.Context, user *models.User, password string) error
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	authn    Authenticator
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, authn Authenticator, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		authn:    authn,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Signup создаёт пользователя. Занятый username или email даёт
// ErrUserExists. Обе проверки идут до Authenticator.Register: у провайдера
// не должно появляться учётных записей без локальной строки.
func (s *Service) Signup(ctx context.Context, in models.NewUser) (*models.User, error) {
	const op = "auth.Signup"

	in.Normalize()

	if err := taken(s.users.GetUserByUsername(ctx, in.Username)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := taken(s.users.GetUserByEmail(ctx, in.Email)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.authn.Register(ctx, in)
	if err != nil {
		if errors.Is(err, ErrUserExists) || errors.Is(err, ErrSignupRejected) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	})
	if errors.Is(err, storage.ErrExists) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", slog.String("op", op), slog.String("user_id", user.ID))
	return user, nil
}

// taken переводит результат поиска пользователя в ErrUserExists.
func taken(_ *models.User, err error) error {
	switch {
	case err == nil:
		return ErrUserExists
	case errors.Is(err, storage.ErrNotFound):
		return nil
	default:
		return err
	}
}

// Login проверяет пароль и выдаёт JWT. Неизвестный пользователь и неверный
// пароль неразличимы: оба дают ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	const op = "auth.Login"

	user, err := s.login(ctx, username, password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		metrics.AuthAttempts.WithLabelValues(metrics.AuthFailure).Inc()
		return nil, "", ErrInvalidCredentials
	case err != nil:
		metrics.AuthAttempts.WithLabelValues(metrics.AuthError).Inc()
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.Username)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues(metrics.AuthError).Inc()
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	metrics.AuthAttempts.WithLabelValues(metrics.AuthSuccess).Inc()
	return user, token, nil
}

func (s *Service) login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := s.authn.Verify(ctx, user, password); err != nil {
		return nil, err
	}
	return user, nil
}

// ValidateToken проверяет подпись и срок действия токена.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Me возвращает владельца токена.
func (s *Service) Me(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.Me"

	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUser(ctx, claims.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
