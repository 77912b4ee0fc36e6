package usecase

import (
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type GetPropertyDetailsUseCase struct {
	properties port.PropertyRepositoryPort
	owners     port.OwnerRepositoryPort
	traces     port.PropertyTraceRepositoryPort
}

func NewGetPropertyDetailsUseCase(properties port.PropertyRepositoryPort,
	owners port.OwnerRepositoryPort,
	traces port.PropertyTraceRepositoryPort) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{
		properties: properties,
		owners:     owners,
		traces:     traces,
	}
}

func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, id string) (*domain.PropertyDetailsView, bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetPropertyDetails",
		"property_id": id,
	})

	ucLogger.Info("Use case started", nil)

	property, err := uc.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			ucLogger.Info("Property not found", nil)
			return nil, false, nil
		}
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, false, fmt.Errorf("failed to get property %s: %w", id, err)
	}

	view := &domain.PropertyDetailsView{Property: *property}

	// Владелец и история продаж читаются независимо
	g, gctx := errgroup.WithContext(ctx)
	g.Go(guarded(func() error {
		owner, err := uc.owners.GetByIdOwner(gctx, property.IdOwner)
		if err != nil {
			if errors.Is(err, domain.ErrOwnerNotFound) {
				return nil
			}
			return fmt.Errorf("failed to get owner %d: %w", property.IdOwner, err)
		}
		view.Owner = owner
		return nil
	}))
	g.Go(guarded(func() error {
		traces, err := uc.traces.ListByIdProperty(gctx, property.IdProperty)
		if err != nil {
			return fmt.Errorf("failed to list traces for property %d: %w", property.IdProperty, err)
		}
		view.Traces = traces
		return nil
	}))
	if err := g.Wait(); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, false, err
	}

	if view.Traces == nil {
		view.Traces = []domain.PropertyTrace{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"owner_found":  view.Owner != nil,
		"traces_count": len(view.Traces),
	})
	return view, true, nil
}
