package usecase

import (
	"catalog-service/internal/core/port"
	"context"
)

// notify отправляет уведомление об изменении. Ошибка публикации только логируется:
// изменение в хранилище уже произошло.
func notify(ctx context.Context, logger port.LoggerPort, event string, publish func(ctx context.Context) error) {
	if err := publish(ctx); err != nil {
		logger.Warn("Failed to publish property event", port.Fields{
			"event": event,
			"error": err.Error(),
		})
	}
}
