// Package health публикует стандартный grpc.health.v1.Health. Статус
// зависит от доступности хранилища и перепроверяется по таймеру.
package health

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
)

// ServiceName имя сервиса в health-check.
const ServiceName = "leadcapture.LeadCapture"

// DefaultInterval период перепроверки хранилища.
const DefaultInterval = 30 * time.Second

const pingTimeout = 5 * time.Second

// Pinger проверка доступности хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server обёртка над health.Server, которая следит за хранилищем.
type Server struct {
	hs       *health.Server
	db       Pinger
	log      *slog.Logger
	interval time.Duration
}

// New создаёт сервер. До первой проверки статус NOT_SERVING.
func New(log *slog.Logger, db Pinger, interval time.Duration) *Server {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Server{
		hs:       hs,
		db:       db,
		log:      log,
		interval: interval,
	}
}

// Register регистрирует Health-сервис на gRPC-сервере.
func (s *Server) Register(g *grpc.Server) {
	healthpb.RegisterHealthServer(g, s.hs)
}

// Check пингует хранилище и обновляет статус.
func (s *Server) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.Ping(ctx); err != nil {
		s.log.Warn("storage is not reachable", slog.String("op", "grpc.health.Check"), sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.hs.SetServingStatus("", status)
	s.hs.SetServingStatus(ServiceName, status)
	return status
}

// Watch проверяет хранилище сразу и затем раз в interval, пока не отменён
// ctx. После отмены все статусы переводятся в NOT_SERVING.
func (s *Server) Watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			s.hs.Shutdown()
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}
