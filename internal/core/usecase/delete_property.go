package usecase

import (
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"context"
	"errors"
	"fmt"
)

type DeletePropertyUseCase struct {
	storage port.PropertyRepositoryPort
	events  port.PropertyEventsPort
}

func NewDeletePropertyUseCase(storage port.PropertyRepositoryPort, events port.PropertyEventsPort) *DeletePropertyUseCase {
	return &DeletePropertyUseCase{storage: storage, events: events}
}

func (uc *DeletePropertyUseCase) Execute(ctx context.Context, id string) (bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "DeleteProperty",
		"property_id": id,
	})

	ucLogger.Info("Use case started", nil)

	existing, err := uc.storage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			ucLogger.Info("Property not found, nothing to delete", nil)
			return false, nil
		}
		ucLogger.Error("Storage returned an error", err, nil)
		return false, fmt.Errorf("failed to get property %s: %w", id, err)
	}

	if err := uc.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			ucLogger.Warn("Property disappeared before delete", nil)
			return false, nil
		}
		ucLogger.Error("Storage returned an error", err, nil)
		return false, fmt.Errorf("failed to delete property %s: %w", id, err)
	}

	if uc.events != nil {
		notify(ctx, ucLogger, "property.deleted", func(ctx context.Context) error {
			return uc.events.PropertyDeleted(ctx, *existing)
		})
	}

	ucLogger.Info("Use case finished successfully", nil)
	return true, nil
}
