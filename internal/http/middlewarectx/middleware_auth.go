// Package middlewarectx содержит HTTP middleware: проверку JWT, ограничение
// частоты запросов по IP и заголовки безопасности.
//
// JWTMiddleware проверяет Bearer-токен из заголовка Authorization и кладёт
// claims и сам токен в контекст запроса.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lead-capture/internal/http/response"
	"github.com/magabrotheeeer/lead-capture/internal/lib/jwt"
	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// Claims ключ для *jwt.CustomClaims в контексте.
	Claims Key = "claims"
	// Token ключ для исходной строки токена.
	Token Key = "token"
)

// Service описывает проверку токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// JWTMiddleware пропускает запрос дальше только с валидным токеном.
// Нет токена или он не прошёл проверку: 401.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := bearerToken(r.Header.Get("Authorization"))
			if tokenStr == "" {
				log.Info("missing authorization token")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Access token required"))
				return
			}

			claims, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Info("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), Claims, claims)
			ctx = context.WithValue(ctx, Token, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext достаёт claims, положенные JWTMiddleware.
func ClaimsFromContext(ctx context.Context) (*jwt.CustomClaims, bool) {
	claims, ok := ctx.Value(Claims).(*jwt.CustomClaims)
	return claims, ok && claims != nil
}

// TokenFromContext достаёт исходный токен.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(Token).(string)
	return token
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
