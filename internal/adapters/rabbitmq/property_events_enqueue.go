package rabbitmq

import (
	"catalog-service/internal/constants"
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// publisher - то, что адаптеру нужно от rabbitmq_producer.Publisher.
type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// PropertyEventDTO - тело сообщения об изменении объекта.
type PropertyEventDTO struct {
	Event      string            `json:"event"`
	PropertyID string            `json:"property_id"`
	IdProperty int               `json:"id_property"`
	OccurredAt time.Time         `json:"occurred_at"`
	Property   *PropertySnapshot `json:"property,omitempty"`
}

type PropertySnapshot struct {
	IdOwner      int     `json:"id_owner"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Address      string  `json:"address"`
	Img          string  `json:"img"`
	CodeInternal string  `json:"code_internal"`
	Year         int     `json:"year"`
}

type PropertyEventsAdapter struct {
	producer publisher
	now      func() time.Time
}

func NewPropertyEventsAdapter(producer publisher) (*PropertyEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &PropertyEventsAdapter{
		producer: producer,
		now:      time.Now,
	}, nil
}

func (a *PropertyEventsAdapter) PropertyCreated(ctx context.Context, property domain.Property) error {
	return a.publish(ctx, constants.RoutingKeyPropertyCreated, constants.EventPropertyCreated, property, true)
}

func (a *PropertyEventsAdapter) PropertyUpdated(ctx context.Context, property domain.Property) error {
	return a.publish(ctx, constants.RoutingKeyPropertyUpdated, constants.EventPropertyUpdated, property, true)
}

// PropertyDeleted не несет снимка: объекта уже нет
func (a *PropertyEventsAdapter) PropertyDeleted(ctx context.Context, property domain.Property) error {
	return a.publish(ctx, constants.RoutingKeyPropertyDeleted, constants.EventPropertyDeleted, property, false)
}

func (a *PropertyEventsAdapter) publish(ctx context.Context, routingKey, event string, property domain.Property, withSnapshot bool) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PropertyEventsAdapter",
		"routing_key": routingKey,
		"property_id": property.ID,
	})

	dto := PropertyEventDTO{
		Event:      event,
		PropertyID: property.ID,
		IdProperty: property.IdProperty,
		OccurredAt: a.now().UTC(),
	}
	if withSnapshot {
		dto.Property = &PropertySnapshot{
			IdOwner:      property.IdOwner,
			Name:         property.Name,
			Price:        property.Price,
			Address:      property.Address,
			Img:          property.Img,
			CodeInternal: property.CodeInternal,
			Year:         property.Year,
		}
	}

	body, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal %s event: %w", event, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    dto.OccurredAt,
		Headers:      make(amqp.Table),
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	logger.Debug("Publishing property event", port.Fields{"event": event})
	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		logger.Error("Failed to publish property event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish %s for property %s: %w", event, property.ID, err)
	}

	logger.Info("Property event published", port.Fields{"event": event})
	return nil
}
