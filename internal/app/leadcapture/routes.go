// Package leadcapture собирает HTTP API: заявки, подписки, аутентификацию,
// админские выборки, тесты и каталог.
package leadcapture

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/lead-capture/internal/http/handlers/admin"
	"github.com/magabrotheeeer/lead-capture/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/lead-capture/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/lead-capture/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/lead-capture/internal/http/handlers/catalogue"
	"github.com/magabrotheeeer/lead-capture/internal/http/handlers/contact"
	"github.com/magabrotheeeer/lead-capture/internal/http/handlers/demorequest"
	"github.com/magabrotheeeer/lead-capture/internal/http/handlers/health"
	"github.com/magabrotheeeer/lead-capture/internal/http/handlers/newsletter"
	"github.com/magabrotheeeer/lead-capture/internal/http/handlers/quizzes"
	"github.com/magabrotheeeer/lead-capture/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lead-capture/internal/lib/catalog"
	"github.com/magabrotheeeer/lead-capture/internal/lib/quiz"
	authservice "github.com/magabrotheeeer/lead-capture/internal/services/auth"
	"github.com/magabrotheeeer/lead-capture/internal/services/leads"
)

// Deps зависимости маршрутов.
type Deps struct {
	Leads   *leads.Service
	Auth    *authservice.Service
	DB      health.Pinger
	Quizzes *quiz.Catalog
	Catalog *catalog.Catalog
	// Limiter nil отключает ограничение частоты (режим разработки).
	Limiter     *middlewarectx.IPRateLimiter
	StorageType string
	Supabase    bool
	// TrustProxy разрешает брать адрес клиента из X-Forwarded-For и
	// X-Real-IP. Без него лимит и заявки видят адрес TCP-соединения.
	TrustProxy bool
}

// MaxBodyBytes предел тела запроса для /api.
const MaxBodyBytes = 100 << 10

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	// Глобальные middleware
	r.Use(middleware.RequestID)
	if d.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.SecurityHeaders,
	)

	healthHandler := health.New(logger, d.DB, d.StorageType, d.Supabase)
	quizHandler := quizzes.New(logger, d.Quizzes)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestSize(MaxBodyBytes))
		if d.Limiter != nil {
			r.Use(middlewarectx.RateLimitMiddleware(logger, d.Limiter))
		}

		// Формы сайта
		r.Post("/contact", contact.New(logger, d.Leads).ServeHTTP)
		r.Post("/newsletter", newsletter.New(logger, d.Leads).ServeHTTP)
		r.Post("/request", demorequest.New(logger, d.Leads).ServeHTTP)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", signup.New(logger, d.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, d.Auth).ServeHTTP)
			r.With(middlewarectx.JWTMiddleware(d.Auth, logger)).
				Get("/me", me.New(logger, d.Auth).ServeHTTP)
		})

		// TODO: закрыть /admin после появления ролей у пользователей
		r.Route("/admin", func(r chi.Router) {
			r.Get("/contacts", admin.Contacts(logger, d.Leads).ServeHTTP)
			r.Get("/newsletter", admin.Newsletter(logger, d.Leads).ServeHTTP)
			r.Get("/requests", admin.Requests(logger, d.Leads).ServeHTTP)
		})

		r.Get("/quizzes", quizHandler.List)
		r.Get("/quizzes/{id}", quizHandler.Get)
		r.Post("/quizzes/{id}/score", quizHandler.Score)

		r.Get("/solutions", catalogue.Solutions(logger, d.Catalog).ServeHTTP)
		r.Get("/resources", catalogue.Resources(logger, d.Catalog).ServeHTTP)

		r.Get("/health/database", healthHandler.ServeHTTP)
	})

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
