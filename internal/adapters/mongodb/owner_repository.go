package mongodb

import (
	"catalog-service/internal/core/domain"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type OwnerRepository struct {
	owners *mongo.Collection
}

func NewOwnerRepository(db *mongo.Database) (*OwnerRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("mongo database cannot be nil")
	}
	return &OwnerRepository{owners: db.Collection(OwnersCollection)}, nil
}

func (r *OwnerRepository) GetByIdOwner(ctx context.Context, idOwner int) (*domain.Owner, error) {
	var doc ownerDocument
	err := r.owners.FindOne(ctx, bson.D{{Key: "idOwner", Value: idOwner}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get owner %d: %w", idOwner, err)
	}

	owner := doc.toDomain()
	return &owner, nil
}
