// Package smtp устанавливает авторизованное соединение с почтовым сервером.
package smtp

import (
	"context"
	"io"
)

// Client подмножество *smtp.Client, нужное для отправки письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает соединения и знает адрес отправителя.
type TransportInterface interface {
	Connect(ctx context.Context) (Client, error)
	From() string
}
