package port

import (
	"catalog-service/internal/core/domain"
	"context"
)

type PropertyTraceRepositoryPort interface {
	ListByIdProperty(ctx context.Context, idProperty int) ([]domain.PropertyTrace, error)
}
