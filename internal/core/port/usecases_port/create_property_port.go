package usecases_port

import (
	"catalog-service/internal/core/domain"
	"context"
)

type CreatePropertyUseCase interface {
	Execute(ctx context.Context, property domain.NewProperty) (*domain.Property, error)
}
