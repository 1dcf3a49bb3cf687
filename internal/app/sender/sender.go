// Package sender воркер, который читает очередь писем и отправляет их по SMTP.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lead-capture/internal/config"
	"github.com/magabrotheeeer/lead-capture/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
	"github.com/magabrotheeeer/lead-capture/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/lead-capture/internal/services/sender"
)

// App потребитель очереди notification.email.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключается к брокеру и объявляет очереди. Без RABBITMQ_URL и SMTP
// воркеру нечего делать, это ошибка конфигурации.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.sender.New"

	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("%s: RABBITMQ_URL is required", op)
	}
	if !cfg.SMTPConfigured() {
		return nil, fmt.Errorf("%s: SMTP_HOST, SMTP_USER and SMTP_PASS are required", op)
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.New(logger, transport),
		logger:        logger,
	}, nil
}

// Run обрабатывает сообщения до отмены ctx и дожидается начатых отправок.
func (a *App) Run(ctx context.Context) error {
	wait, err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.EmailQueue.QueueName, a.senderService.HandleMessage)
	if err != nil {
		a.logger.Error("failed to start email consumer", sl.Err(err))
		return err
	}
	a.logger.Info("email consumer started", slog.String("queue", rabbitmq.EmailQueue.QueueName))

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")
	wait()

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
