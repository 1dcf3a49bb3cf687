// Package sl содержит вспомогательные функции для логгера slog.
package sl

import (
	"io"
	"log/slog"
)

const (
	envLocal       = "local"
	envDevelopment = "development"
)

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// SetupLogger создаёт логгер под окружение: текст с Debug локально и в
// development, JSON с Info во всех остальных.
func SetupLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case envLocal, envDevelopment:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
