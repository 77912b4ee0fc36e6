package usecases_port

import "context"

type DeletePropertyUseCase interface {
	Execute(ctx context.Context, id string) (found bool, err error)
}
