package usecases_port

import (
	"catalog-service/internal/core/domain"
	"context"
)

type GetPropertyDetailsUseCase interface {
	// found == false, если объекта нет
	Execute(ctx context.Context, id string) (view *domain.PropertyDetailsView, found bool, err error)
}
