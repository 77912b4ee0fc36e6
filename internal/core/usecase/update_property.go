package usecase

import (
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"context"
	"errors"
	"fmt"
)

type UpdatePropertyUseCase struct {
	storage port.PropertyRepositoryPort
	events  port.PropertyEventsPort
}

func NewUpdatePropertyUseCase(storage port.PropertyRepositoryPort, events port.PropertyEventsPort) *UpdatePropertyUseCase {
	return &UpdatePropertyUseCase{storage: storage, events: events}
}

// Execute меняет только name/price/address/img. Возвращает false, если объекта нет.
func (uc *UpdatePropertyUseCase) Execute(ctx context.Context, id string, changes domain.PropertyChanges) (bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "UpdateProperty",
		"property_id": id,
	})

	ucLogger.Info("Use case started", nil)

	// Сначала проверяем существование, чтобы отличать "не найден" от пустого обновления
	existing, err := uc.storage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			ucLogger.Info("Property not found, nothing to update", nil)
			return false, nil
		}
		ucLogger.Error("Storage returned an error", err, nil)
		return false, fmt.Errorf("failed to get property %s: %w", id, err)
	}

	existing.Apply(changes)

	if err := uc.storage.Update(ctx, id, changes); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			ucLogger.Warn("Property disappeared before update", nil)
			return false, nil
		}
		ucLogger.Error("Storage returned an error", err, nil)
		return false, fmt.Errorf("failed to update property %s: %w", id, err)
	}

	if uc.events != nil {
		notify(ctx, ucLogger, "property.updated", func(ctx context.Context) error {
			return uc.events.PropertyUpdated(ctx, *existing)
		})
	}

	ucLogger.Info("Use case finished successfully", nil)
	return true, nil
}
