package port

import (
	"catalog-service/internal/core/domain"
	"context"
)

type OwnerRepositoryPort interface {
	// GetByIdOwner возвращает domain.ErrOwnerNotFound, если владельца нет.
	GetByIdOwner(ctx context.Context, idOwner int) (*domain.Owner, error)
}
