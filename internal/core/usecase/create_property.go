package usecase

import (
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"context"
	"fmt"
)

type CreatePropertyUseCase struct {
	storage port.PropertyRepositoryPort
	events  port.PropertyEventsPort
}

// events может быть nil, тогда уведомления не отправляются.
func NewCreatePropertyUseCase(storage port.PropertyRepositoryPort, events port.PropertyEventsPort) *CreatePropertyUseCase {
	return &CreatePropertyUseCase{storage: storage, events: events}
}

func (uc *CreatePropertyUseCase) Execute(ctx context.Context, newProperty domain.NewProperty) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "CreateProperty",
		"id_owner": newProperty.IdOwner,
	})

	ucLogger.Info("Use case started", nil)

	created, err := uc.storage.Create(ctx, newProperty)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	if uc.events != nil {
		notify(ctx, ucLogger, "property.created", func(ctx context.Context) error {
			return uc.events.PropertyCreated(ctx, *created)
		})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"property_id": created.ID,
		"id_property": created.IdProperty,
	})
	return created, nil
}
