package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/repair-desk/internal/domain"
)

// PartUsageRepository encapsulates the append-only parts ledger.
type PartUsageRepository interface {
	Create(ctx context.Context, usage *domain.PartUsage) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.PartUsage, error)
	TotalCost(ctx context.Context, ticketID string) (float64, error)
}

type partUsageRepository struct {
	pool *pgxpool.Pool
}

// NewPartUsageRepository instantiates repository.
func NewPartUsageRepository(pool *pgxpool.Pool) PartUsageRepository {
	return &partUsageRepository{pool: pool}
}

func (r *partUsageRepository) Create(ctx context.Context, usage *domain.PartUsage) error {
	const query = `
        INSERT INTO part_usage (ticket_id, part_name, quantity, unit_cost)
        VALUES ($1, $2, $3, $4)
        RETURNING id, recorded_at`

	return r.pool.QueryRow(ctx, query,
		usage.TicketID,
		usage.PartName,
		usage.Quantity,
		usage.UnitCost,
	).Scan(&usage.ID, &usage.RecordedAt)
}

func (r *partUsageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.PartUsage, error) {
	const query = `
        SELECT id, ticket_id, part_name, quantity, unit_cost, recorded_at
        FROM part_usage WHERE ticket_id=$1
        ORDER BY recorded_at DESC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PartUsage
	for rows.Next() {
		var usage domain.PartUsage
		if err := rows.Scan(
			&usage.ID,
			&usage.TicketID,
			&usage.PartName,
			&usage.Quantity,
			&usage.UnitCost,
			&usage.RecordedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, usage)
	}
	return result, rows.Err()
}

func (r *partUsageRepository) TotalCost(ctx context.Context, ticketID string) (float64, error) {
	const query = `
        SELECT COALESCE(SUM(quantity * unit_cost), 0)
        FROM part_usage WHERE ticket_id=$1`

	var total float64
	err := r.pool.QueryRow(ctx, query, ticketID).Scan(&total)
	return total, err
}
