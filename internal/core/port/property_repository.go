package port

import (
	"catalog-service/internal/core/domain"
	"context"
)

// PropertyRepositoryPort - хранилище объектов недвижимости.
// Отсутствующий объект возвращается как domain.ErrPropertyNotFound.
type PropertyRepositoryPort interface {
	GetByID(ctx context.Context, id string) (*domain.Property, error)

	// Find и Count принимают один и тот же набор предикатов.
	// Пустой фильтр означает полную выборку, page.Limit == 0 - без ограничения.
	Find(ctx context.Context, filter domain.PropertyFilter, page domain.PageRequest) ([]domain.Property, error)
	Count(ctx context.Context, filter domain.PropertyFilter) (int, error)

	// Create возвращает полностью заполненный объект, включая ID от хранилища.
	Create(ctx context.Context, property domain.NewProperty) (*domain.Property, error)
	Update(ctx context.Context, id string, changes domain.PropertyChanges) error
	Delete(ctx context.Context, id string) error
}
