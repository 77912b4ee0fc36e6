package usecases_port

import (
	"catalog-service/internal/core/domain"
	"context"
)

type ListPropertiesUseCase interface {
	Execute(ctx context.Context, filters domain.ListFilters, page int) (*domain.PaginatedResult, error)
}
