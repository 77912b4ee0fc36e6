package mongodb

import (
	"catalog-service/internal/core/domain"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PropertyTraceRepository struct {
	traces *mongo.Collection
}

func NewPropertyTraceRepository(db *mongo.Database) (*PropertyTraceRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("mongo database cannot be nil")
	}
	return &PropertyTraceRepository{traces: db.Collection(PropertyTracesCollection)}, nil
}

// ListByIdProperty возвращает историю продаж в хронологическом порядке.
func (r *PropertyTraceRepository) ListByIdProperty(ctx context.Context, idProperty int) ([]domain.PropertyTrace, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateSale", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.traces.Find(ctx, bson.D{{Key: "idProperty", Value: idProperty}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find traces for property %d: %w", idProperty, err)
	}
	defer cursor.Close(ctx)

	var docs []propertyTraceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode traces: %w", err)
	}

	traces := make([]domain.PropertyTrace, 0, len(docs))
	for _, doc := range docs {
		traces = append(traces, doc.toDomain())
	}
	return traces, nil
}
