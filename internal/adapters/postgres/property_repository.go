package postgres

import (
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema создает таблицы каталога, если их еще нет.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply catalog schema: %w", err)
	}
	return nil
}

// PropertyRepository реализует PropertyRepositoryPort для PostgreSQL.
type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) (*PropertyRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PropertyRepository{pool: pool}, nil
}

func scanProperty(row pgx.Row) (domain.Property, error) {
	var p domain.Property
	err := row.Scan(&p.ID, &p.IdOwner, &p.Name, &p.Price, &p.Address, &p.Img, &p.IdProperty, &p.CodeInternal, &p.Year)
	return p, err
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		// такой id не мог быть выдан хранилищем
		return nil, fmt.Errorf("id %q: %w", id, domain.ErrPropertyNotFound)
	}

	row := r.pool.QueryRow(ctx, `SELECT id, id_owner, name, price, address, img, id_property, code_internal, year
		FROM properties WHERE id = $1`, uid)
	p, err := scanProperty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", id, err)
	}
	return &p, nil
}

func (r *PropertyRepository) Find(ctx context.Context, filter domain.PropertyFilter, page domain.PageRequest) ([]domain.Property, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresPropertyRepository",
		"method":    "Find",
		"limit":     page.Limit,
		"offset":    page.Offset(),
	})

	query, args := buildFindQuery(filter, page)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to find properties", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find properties: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Property, 0, page.Limit)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}

	repoLogger.Debug("Properties page loaded", port.Fields{"count": len(items)})
	return items, nil
}

func (r *PropertyRepository) Count(ctx context.Context, filter domain.PropertyFilter) (int, error) {
	query, args := buildCountQuery(filter)

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return int(total), nil
}

// Create вставляет объект; id_property без значения берется из последовательности.
func (r *PropertyRepository) Create(ctx context.Context, np domain.NewProperty) (*domain.Property, error) {
	id := uuid.New()

	var idProperty interface{}
	if np.IdProperty != 0 {
		idProperty = np.IdProperty
	}

	row := r.pool.QueryRow(ctx, `INSERT INTO properties (id, id_owner, name, price, address, img, id_property, code_internal, year)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7::integer, nextval('properties_id_property_seq')::integer), $8, $9)
		RETURNING id, id_owner, name, price, address, img, id_property, code_internal, year`,
		id, np.IdOwner, np.Name, np.Price, np.Address, np.Img, idProperty, np.CodeInternal, np.Year,
	)

	p, err := scanProperty(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert property: %w", err)
	}

	// явный id_property сдвигает последовательность, чтобы следующие не совпали
	if np.IdProperty != 0 {
		_, err = r.pool.Exec(ctx, `SELECT setval('properties_id_property_seq',
			GREATEST($1::bigint, (SELECT last_value FROM properties_id_property_seq)))`, np.IdProperty)
		if err != nil {
			return nil, fmt.Errorf("failed to advance id_property sequence: %w", err)
		}
	}
	return &p, nil
}

func (r *PropertyRepository) Update(ctx context.Context, id string, changes domain.PropertyChanges) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("id %q: %w", id, domain.ErrPropertyNotFound)
	}

	tag, err := r.pool.Exec(ctx, `UPDATE properties SET name = $2, price = $3, address = $4, img = $5 WHERE id = $1`,
		uid, changes.Name, changes.Price, changes.Address, changes.Img)
	if err != nil {
		return fmt.Errorf("failed to update property %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %s: %w", id, domain.ErrPropertyNotFound)
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("id %q: %w", id, domain.ErrPropertyNotFound)
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %s: %w", id, domain.ErrPropertyNotFound)
	}
	return nil
}
