package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/lead-capture/internal/lib/password"
	"github.com/magabrotheeeer/lead-capture/internal/lib/supabase"
	"github.com/magabrotheeeer/lead-capture/internal/models"
)

// Local хранит bcrypt-хэш пароля в собственном хранилище.
type Local struct {
	cost int
}

// NewLocal создаёт локальный Authenticator с заданной стоимостью bcrypt.
func NewLocal(cost int) *Local {
	return &Local{cost: cost}
}

// Register хэширует пароль. Пароль длиннее лимита bcrypt даёт
// ErrSignupRejected.
func (l *Local) Register(_ context.Context, in models.NewUser) (string, error) {
	const op = "auth.Local.Register"

	hash, err := password.GetHashCost(in.Password, l.cost)
	if errors.Is(err, password.ErrTooLong) {
		return "", fmt.Errorf("%w: %v", ErrSignupRejected, err)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hash, nil
}

// Verify сравнивает пароль с хэшем.
func (l *Local) Verify(_ context.Context, user *models.User, pw string) error {
	if user.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	err := password.CompareHash(user.PasswordHash, pw)
	if errors.Is(err, password.ErrMismatch) {
		return ErrInvalidCredentials
	}
	return err
}

// SupabaseClient методы клиента Supabase Auth.
type SupabaseClient interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*supabase.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
}

// Supabase проверяет пароль в Supabase Auth по email пользователя.
type Supabase struct {
	client SupabaseClient
}

// NewSupabase создаёт Authenticator поверх Supabase Auth.
func NewSupabase(client SupabaseClient) *Supabase {
	return &Supabase{client: client}
}

// Register заводит пользователя в Supabase. Пароль локально не хранится.
func (s *Supabase) Register(ctx context.Context, in models.NewUser) (string, error) {
	_, err := s.client.SignUp(ctx, in.Email, in.Password, map[string]any{"username": in.Username})
	if errors.Is(err, supabase.ErrRejected) {
		return "", fmt.Errorf("%w: %v", ErrSignupRejected, err)
	}
	if err != nil {
		return "", err
	}
	return "", nil
}

// Verify выполняет вход по паролю. Любой отказ сервера считается неверным паролем.
func (s *Supabase) Verify(ctx context.Context, user *models.User, pw string) error {
	_, err := s.client.SignInWithPassword(ctx, user.Email, pw)
	if errors.Is(err, supabase.ErrRejected) {
		return ErrInvalidCredentials
	}
	return err
}
