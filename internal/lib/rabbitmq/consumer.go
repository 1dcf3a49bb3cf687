package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
)

const maxInFlight = 10

// ErrDrop помечает сообщение, которое бессмысленно обрабатывать повторно.
// Такое сообщение отклоняется без возврата в очередь.
var ErrDrop = errors.New("message dropped")

// ConsumerMessage читает очередь и вызывает handler для каждого сообщения,
// не более maxInFlight одновременно. Успех подтверждается ack, ошибка
// возвращает сообщение в очередь через nack (кроме ErrDrop). Возвращённая функция ждёт
// завершения обработчиков после отмены ctx или закрытия канала.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler func([]byte) error) (wait func(), err error) {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	sem := make(chan struct{}, maxInFlight)

	go func() {
		defer close(done)
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				wg.Add(1)
				go func(d amqp.Delivery) {
					defer func() {
						<-sem
						wg.Done()
					}()
					if err := handler(d.Body); err != nil {
						requeue := !errors.Is(err, ErrDrop)
						log.Warn("message handling failed",
							slog.String("queue", queueName),
							slog.Bool("requeue", requeue),
							sl.Err(err),
						)
						if nackErr := d.Nack(false, requeue); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		<-done
		wg.Wait()
	}, nil
}
