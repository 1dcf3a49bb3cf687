// Package sender собирает письма о заявках и доставляет их через SMTP.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strings"
	"time"

	"github.com/magabrotheeeer/lead-capture/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
	"github.com/magabrotheeeer/lead-capture/internal/lib/smtp"
	"github.com/magabrotheeeer/lead-capture/internal/models"
)

// ErrNoRecipients у письма нет получателей.
var ErrNoRecipients = errors.New("notification has no recipients")

const deliveryTimeout = 30 * time.Second

// Service отправляет готовые уведомления.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, transport smtp.TransportInterface) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// HandleMessage обработчик сообщений из очереди notification.email.
// Неразбираемое сообщение помечается rabbitmq.ErrDrop.
func (s *Service) HandleMessage(body []byte) error {
	const op = "sender.HandleMessage"

	var n models.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w: error unmarshalling message: %v", op, rabbitmq.ErrDrop, err)
	}
	if len(n.To) == 0 {
		return fmt.Errorf("%s: %w: %v", op, rabbitmq.ErrDrop, ErrNoRecipients)
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	return s.Send(ctx, n)
}

// Send доставляет письмо всем получателям одним SMTP-сеансом.
func (s *Service) Send(ctx context.Context, n models.Notification) error {
	const op = "sender.Send"

	if len(n.To) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoRecipients)
	}
	if err := s.sendEmail(ctx, n.To, n.Subject, n.Body); err != nil {
		return fmt.Errorf("%s: %s: %w", op, n.Kind, err)
	}
	return nil
}

func (s *Service) sendEmail(ctx context.Context, to []string, subject, bodyText string) error {
	from := s.transport.From()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to), slog.String("subject", subject))
	return nil
}
