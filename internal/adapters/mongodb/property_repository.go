package mongodb

import (
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const idPropertySequence = "idProperty"

type PropertyRepository struct {
	properties *mongo.Collection
	counters   *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) (*PropertyRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("mongo database cannot be nil")
	}
	return &PropertyRepository{
		properties: db.Collection(PropertiesCollection),
		counters:   db.Collection(CountersCollection),
	}, nil
}

// parseID: идентификатор, который не является ObjectID, не может принадлежать
// ни одному документу, поэтому трактуется как отсутствующий объект.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("id %q: %w", id, domain.ErrPropertyNotFound)
	}
	return oid, nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc propertyDocument
	err = r.properties.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", id, err)
	}

	p := doc.toDomain()
	return &p, nil
}

func (r *PropertyRepository) Find(ctx context.Context, filter domain.PropertyFilter, page domain.PageRequest) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "MongoPropertyRepository",
		"method":    "Find",
	})

	query := buildPropertyFilter(filter)
	logger.Debug("Executing find", port.Fields{"skip": page.Skip, "limit": page.Limit})

	cursor, err := r.properties.Find(ctx, query, buildFindOptions(page))
	if err != nil {
		return nil, fmt.Errorf("failed to find properties: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}

	items := make([]domain.Property, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toDomain())
	}
	return items, nil
}

func (r *PropertyRepository) Count(ctx context.Context, filter domain.PropertyFilter) (int, error) {
	total, err := r.properties.CountDocuments(ctx, buildPropertyFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return int(total), nil
}

func (r *PropertyRepository) Create(ctx context.Context, np domain.NewProperty) (*domain.Property, error) {
	idProperty := np.IdProperty
	if idProperty == 0 {
		next, err := r.nextSequence(ctx, idPropertySequence)
		if err != nil {
			return nil, err
		}
		idProperty = next
	} else if err := r.raiseSequence(ctx, idPropertySequence, idProperty); err != nil {
		return nil, err
	}

	doc := propertyDocument{
		ID:           primitive.NewObjectID(),
		IdOwner:      np.IdOwner,
		Name:         np.Name,
		Address:      np.Address,
		Price:        np.Price,
		Img:          np.Img,
		IdProperty:   idProperty,
		CodeInternal: np.CodeInternal,
		Year:         np.Year,
	}

	if _, err := r.properties.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert property: %w", err)
	}

	p := doc.toDomain()
	return &p, nil
}

// nextSequence атомарно увеличивает счетчик и возвращает новое значение
func (r *PropertyRepository) nextSequence(ctx context.Context, name string) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter counterDocument
	err := r.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "value", Value: 1}}}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", name, err)
	}
	return counter.Value, nil
}

// raiseSequence поднимает счетчик до value, если он меньше
func (r *PropertyRepository) raiseSequence(ctx context.Context, name string, value int) error {
	_, err := r.counters.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$max", Value: bson.D{{Key: "value", Value: value}}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to raise %s sequence: %w", name, err)
	}
	return nil
}

func (r *PropertyRepository) Update(ctx context.Context, id string, changes domain.PropertyChanges) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: changes.Name},
		{Key: "price", Value: changes.Price},
		{Key: "address", Value: changes.Address},
		{Key: "img", Value: changes.Img},
	}}}

	res, err := r.properties.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to update property %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update %s: %w", id, domain.ErrPropertyNotFound)
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.properties.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete %s: %w", id, domain.ErrPropertyNotFound)
	}
	return nil
}
