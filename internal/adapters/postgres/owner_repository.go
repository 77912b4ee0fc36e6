package postgres

import (
	"catalog-service/internal/core/domain"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OwnerRepository struct {
	pool *pgxpool.Pool
}

func NewOwnerRepository(pool *pgxpool.Pool) (*OwnerRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &OwnerRepository{pool: pool}, nil
}

func (r *OwnerRepository) GetByIdOwner(ctx context.Context, idOwner int) (*domain.Owner, error) {
	var owner domain.Owner
	err := r.pool.QueryRow(ctx, `SELECT id, id_owner, name, email, phone FROM owners WHERE id_owner = $1`, idOwner).
		Scan(&owner.ID, &owner.IdOwner, &owner.Name, &owner.Email, &owner.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get owner %d: %w", idOwner, err)
	}
	return &owner, nil
}
