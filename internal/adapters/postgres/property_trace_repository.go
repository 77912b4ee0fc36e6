package postgres

import (
	"catalog-service/internal/core/domain"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PropertyTraceRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyTraceRepository(pool *pgxpool.Pool) (*PropertyTraceRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PropertyTraceRepository{pool: pool}, nil
}

func (r *PropertyTraceRepository) ListByIdProperty(ctx context.Context, idProperty int) ([]domain.PropertyTrace, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, id_property, date_sale, name, value, tax
		FROM property_traces WHERE id_property = $1 ORDER BY date_sale ASC, id ASC`, idProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to query traces for property %d: %w", idProperty, err)
	}
	defer rows.Close()

	traces := make([]domain.PropertyTrace, 0)
	for rows.Next() {
		var trace domain.PropertyTrace
		if err := rows.Scan(&trace.ID, &trace.IdProperty, &trace.DateSale, &trace.Name, &trace.Value, &trace.Tax); err != nil {
			return nil, fmt.Errorf("failed to scan trace: %w", err)
		}
		trace.DateSale = trace.DateSale.UTC()
		traces = append(traces, trace)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate traces: %w", err)
	}
	return traces, nil
}
