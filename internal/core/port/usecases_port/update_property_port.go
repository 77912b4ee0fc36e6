package usecases_port

import (
	"catalog-service/internal/core/domain"
	"context"
)

type UpdatePropertyUseCase interface {
	Execute(ctx context.Context, id string, changes domain.PropertyChanges) (found bool, err error)
}
