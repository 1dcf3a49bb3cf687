// Package besteffort выполняет побочные операции, сбой которых не должен
// прерывать обработку запроса: запись в хранилище, отправку писем.
package besteffort

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/lead-capture/internal/lib/metrics"
	"github.com/magabrotheeeer/lead-capture/internal/lib/sl"
)

// Run вызывает fn и сообщает, удалась ли операция. Ошибка и паника
// превращаются в предупреждение в логе и false, наружу ничего не уходит.
func Run(ctx context.Context, log *slog.Logger, operation string, fn func(ctx context.Context) error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			fail(log, operation, fmt.Errorf("panic: %v", r))
			ok = false
		}
	}()

	if err := fn(ctx); err != nil {
		fail(log, operation, err)
		return false
	}
	return true
}

func fail(log *slog.Logger, operation string, err error) {
	metrics.BestEffortFailures.WithLabelValues(operation).Inc()
	log.Warn("best-effort operation failed",
		slog.String("operation", operation),
		sl.Err(err),
	)
}
