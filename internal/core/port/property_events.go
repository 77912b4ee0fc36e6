package port

import (
	"catalog-service/internal/core/domain"
	"context"
)

// PropertyEventsPort публикует уведомления об изменениях каталога.
type PropertyEventsPort interface {
	PropertyCreated(ctx context.Context, property domain.Property) error
	PropertyUpdated(ctx context.Context, property domain.Property) error
	PropertyDeleted(ctx context.Context, property domain.Property) error
}
