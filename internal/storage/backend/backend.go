// Package backend выбирает реализацию хранилища по конфигурации.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/lead-capture/internal/storage"
	"github.com/magabrotheeeer/lead-capture/internal/storage/memory"
	"github.com/magabrotheeeer/lead-capture/internal/storage/postgresql"
)

// New возвращает PostgreSQL-хранилище, если задан databaseURL, иначе хранилище в памяти.
func New(ctx context.Context, databaseURL string, log *slog.Logger) (storage.Storage, error) {
	const op = "storage.backend.New"

	if databaseURL == "" {
		log.Warn("DATABASE_URL is not set, using in-memory storage; data will not survive a restart")
		return memory.New(), nil
	}

	s, err := postgresql.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("using postgres storage")
	return s, nil
}
