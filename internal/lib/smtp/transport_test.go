package smtp

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lead-capture/internal/config"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// fakeServer отвечает на EHLO без расширения STARTTLS.
func fakeServer(t *testing.T) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		_, _ = conn.Write([]byte("220 localhost ESMTP test\r\n"))
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			switch {
			case strings.HasPrefix(line, "EHLO"):
				_, _ = conn.Write([]byte("250-localhost\r\n250 AUTH PLAIN\r\n"))
			case strings.HasPrefix(line, "QUIT"):
				_, _ = conn.Write([]byte("221 bye\r\n"))
				return
			default:
				_, _ = conn.Write([]byte("502 not implemented\r\n"))
			}
		}
	}()

	return ln.Addr().String()
}

func TestTransport_From(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SMTP
		want string
	}{
		{
			name: "explicit from",
			cfg:  config.SMTP{SMTPUser: "user@example.com", SMTPFrom: "noreply@example.com"},
			want: "noreply@example.com",
		},
		{
			name: "falls back to user",
			cfg:  config.SMTP{SMTPUser: "user@example.com"},
			want: "user@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransport(tt.cfg, newNoopLogger())
			assert.Equal(t, tt.want, tr.From())
		})
	}
}

func TestTransport_ConnectRequiresStartTLS(t *testing.T) {
	host, port, err := net.SplitHostPort(fakeServer(t))
	require.NoError(t, err)

	tr := NewTransport(config.SMTP{SMTPHost: host, SMTPPort: port, SMTPUser: "u", SMTPPass: "p"}, newNoopLogger())

	client, err := tr.Connect(context.Background())
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrNoStartTLS)
}

func TestTransport_ConnectDialError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	tr := NewTransport(config.SMTP{SMTPHost: host, SMTPPort: port}, newNoopLogger())

	client, err := tr.Connect(context.Background())
	assert.Nil(t, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to dial SMTP server")
}
