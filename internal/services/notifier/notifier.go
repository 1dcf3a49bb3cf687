// Package notifier доставляет уведомления: через очередь RabbitMQ, если она
// настроена, иначе напрямую через SMTP, иначе только пишет в лог.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/lead-capture/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/lead-capture/internal/models"
)

// Dispatcher отправляет одно уведомление.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification) error
}

// Publisher публикует сообщение в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Sender доставляет письмо синхронно.
type Sender interface {
	Send(ctx context.Context, n models.Notification) error
}

// Queue кладёт уведомления в очередь писем.
type Queue struct {
	publisher Publisher
}

// NewQueue создаёт Dispatcher поверх брокера.
func NewQueue(publisher Publisher) *Queue {
	return &Queue{publisher: publisher}
}

// Dispatch публикует уведомление с ключом очереди писем.
func (q *Queue) Dispatch(ctx context.Context, n models.Notification) error {
	const op = "notifier.Queue.Dispatch"

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if err := q.publisher.Publish(rabbitmq.EmailQueue.RoutingKey, n); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Direct отправляет письмо в рамках запроса.
type Direct struct {
	sender Sender
}

// NewDirect создаёт синхронный Dispatcher.
func NewDirect(sender Sender) *Direct {
	return &Direct{sender: sender}
}

// Dispatch отправляет письмо сразу.
func (d *Direct) Dispatch(ctx context.Context, n models.Notification) error {
	const op = "notifier.Direct.Dispatch"

	if err := d.sender.Send(ctx, n); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Discard используется, когда почта не настроена.
type Discard struct {
	log *slog.Logger
}

// NewDiscard создаёт Dispatcher, который только пишет в лог.
func NewDiscard(log *slog.Logger) *Discard {
	return &Discard{log: log}
}

// Dispatch пишет предупреждение и не возвращает ошибку.
func (d *Discard) Dispatch(_ context.Context, n models.Notification) error {
	d.log.Warn("email service not configured, notification skipped",
		slog.String("kind", n.Kind),
		slog.String("subject", n.Subject),
	)
	return nil
}
