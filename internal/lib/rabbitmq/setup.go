package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// ExchangeNotifications direct-exchange для всех уведомлений.
const ExchangeNotifications = "notifications"

// QueueConfig связка очереди и ключа маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// EmailQueue очередь писем, которую читает notification-sender.
var EmailQueue = QueueConfig{QueueName: "notification.email", RoutingKey: "email"}

// GetNotificationQueues возвращает все очереди уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{EmailQueue}
}

// SetupChannel открывает канал, объявляет exchange и привязывает очереди.
// Объявление идемпотентно, его выполняют и издатель, и потребитель.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := declare(ch, queues); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, nil
}

func declare(ch *amqp.Channel, queues []QueueConfig) error {
	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	err := ch.ExchangeDeclare(
		ExchangeNotifications,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			ExchangeNotifications,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to bind queue %s with routing key %s: %w", q.QueueName, q.RoutingKey, err)
		}
	}
	return nil
}
