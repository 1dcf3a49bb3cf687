package leadcapture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"google.golang.org/grpc"

	"github.com/magabrotheeeer/lead-capture/internal/cache"
	"github.com/magabrotheeeer/lead-capture/internal/config"
	grpchealth "github.com/magabrotheeeer/lead-capture/internal/grpc/health"
	"github.com/magabrotheeeer/lead-capture/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lead-capture/internal/lib/catalog"
	"github.com/magabrotheeeer/lead-capture/internal/lib/jwt"
	"github.com/magabrotheeeer/lead-capture/internal/lib/password"
	"github.com/magabrotheeeer/lead-capture/internal/lib/quiz"
	"github.com/magabrotheeeer/lead-capture/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
	"github.com/magabrotheeeer/lead-capture/internal/lib/smtp"
	"github.com/magabrotheeeer/lead-capture/internal/lib/supabase"
	authservice "github.com/magabrotheeeer/lead-capture/internal/services/auth"
	"github.com/magabrotheeeer/lead-capture/internal/services/leads"
	"github.com/magabrotheeeer/lead-capture/internal/services/notifier"
	senderservice "github.com/magabrotheeeer/lead-capture/internal/services/sender"
	"github.com/magabrotheeeer/lead-capture/internal/storage"
	"github.com/magabrotheeeer/lead-capture/internal/storage/backend"
)

const shutdownTimeout = 15 * time.Second

// App HTTP API и, если задан GRPC_ADDRESS, gRPC health-сервер.
type App struct {
	server     *http.Server
	grpcServer *grpc.Server
	listener   net.Listener
	health     *grpchealth.Server
	logger     *slog.Logger
	db         storage.Storage
	closers    []io.Closer
}

// New поднимает зависимости по конфигурации. Необязательные части
// (redis, rabbitmq, smtp, supabase, grpc) включаются только если настроены.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "leadcapture.New"

	db, err := backend.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a := &App{logger: logger, db: db}

	leadsCache, err := a.newCache(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	dispatcher, err := a.newDispatcher(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.UsingDevJWTSecret() {
		logger.Warn("JWT_SECRET is not set, using the development secret")
	}
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	var authn authservice.Authenticator = authservice.NewLocal(password.DefaultCost)
	if cfg.UseSupabase() {
		logger.Info("using supabase auth")
		authn = authservice.NewSupabase(supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil))
	}

	quizzes, err := quiz.Load()
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cat, err := catalog.Load()
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var limiter *middlewarectx.IPRateLimiter
	if !cfg.IsDevelopment() {
		limiter = middlewarectx.NewIPRateLimiter(middlewarectx.RateLimitRequests, middlewarectx.RateLimitWindow)
	}

	storageType := "memory"
	if cfg.UsePostgres() {
		storageType = "postgresql"
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Leads:       leads.New(db, leadsCache, dispatcher, cfg.NotifyRecipients(), logger),
		Auth:        authservice.New(db, authn, jwtMaker, logger),
		DB:          db,
		Quizzes:     quizzes,
		Catalog:     cat,
		Limiter:     limiter,
		StorageType: storageType,
		Supabase:    cfg.UseSupabase(),
		TrustProxy:  cfg.TrustProxy,
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.GRPCAddress != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddress)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.listener = lis
		a.grpcServer = grpc.NewServer()
		a.health = grpchealth.New(logger, db, grpchealth.DefaultInterval)
		a.health.Register(a.grpcServer)
	}

	return a, nil
}

func (a *App) newCache(ctx context.Context, cfg *config.Config) (leads.Cache, error) {
	if cfg.RedisAddress == "" {
		a.logger.Info("REDIS_ADDRESS is not set, admin listings are not cached")
		return cache.Noop{}, nil
	}
	c, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, c)
	return c, nil
}

// newDispatcher очередь, если есть брокер; иначе прямая отправка через
// SMTP; без SMTP письма пропускаются.
func (a *App) newDispatcher(ctx context.Context, cfg *config.Config) (leads.Dispatcher, error) {
	switch {
	case cfg.RabbitMQURL != "":
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		pub, err := rabbitmq.NewPublisher(conn)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		a.closers = append(a.closers, pub)
		a.logger.Info("notifications go through rabbitmq")
		return notifier.NewQueue(pub), nil
	case cfg.SMTPConfigured():
		a.logger.Info("notifications are sent directly over smtp")
		transport := smtp.NewTransport(cfg.SMTP, a.logger)
		return notifier.NewDirect(senderservice.New(a.logger, transport)), nil
	default:
		a.logger.Warn("email service not configured, notifications will be skipped")
		return notifier.NewDiscard(a.logger), nil
	}
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливается.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	healthCtx, stopHealth := context.WithCancel(ctx)
	defer stopHealth()
	if a.grpcServer != nil {
		go a.health.Watch(healthCtx)
		go func() {
			a.logger.Info("gRPC health service listening on", slog.String("address", a.listener.Addr().String()))
			if err := a.grpcServer.Serve(a.listener); err != nil {
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	a.logger.Info("shutting down gracefully")
	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(timeoutCtx); err != nil && runErr == nil {
		runErr = err
	}
	if a.grpcServer != nil {
		stopHealth()
		a.grpcServer.GracefulStop()
	}
	a.close()
	return runErr
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Error("failed to close resource", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
