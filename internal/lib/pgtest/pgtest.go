// Package pgtest поднимает PostgreSQL в testcontainers для интеграционных тестов.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Регистрация драйвера pgx для database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	dbName     = "testdb"
	dbUser     = "testuser"
	dbPassword = "testpass"
)

// Start запускает контейнер и возвращает DSN. В режиме -short тест пропускается.
func Start(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	port := nat.Port("5432/tcp")

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForSQL(port, "pgx", func(host string, p nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
					dbUser, dbPassword, host, p.Port(), dbName)
			}).WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	testcontainers.CleanupContainer(t, pgContainer)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

// Open запускает контейнер и открывает к нему *sql.DB.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", Start(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Ping())
	return db
}
