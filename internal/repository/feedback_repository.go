package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/repair-desk/internal/domain"
)

// FeedbackRepository encapsulates service-feedback persistence. Feedback is
// keyed one-to-one by ticket id.
type FeedbackRepository interface {
	GetByTicket(ctx context.Context, ticketID string) (*domain.ServiceFeedback, error)
	// UpsertForTicket writes the feedback row and flips the ticket to
	// completed in a single transaction, so the stored status and the
	// feedback row can never disagree.
	UpsertForTicket(ctx context.Context, feedback *domain.ServiceFeedback) error
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository instantiates repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.ServiceFeedback, error) {
	const query = `
        SELECT id, ticket_id, comment, remark, status, date_solved, created_at, updated_at
        FROM service_feedback WHERE ticket_id=$1`

	var feedback domain.ServiceFeedback
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&feedback.ID,
		&feedback.TicketID,
		&feedback.Comment,
		&feedback.Remark,
		&feedback.Status,
		&feedback.DateSolved,
		&feedback.CreatedAt,
		&feedback.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) UpsertForTicket(ctx context.Context, feedback *domain.ServiceFeedback) error {
	const upsertQuery = `
        INSERT INTO service_feedback (ticket_id, comment, remark, status, date_solved)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (ticket_id) DO UPDATE SET
            comment = EXCLUDED.comment,
            remark = EXCLUDED.remark,
            status = EXCLUDED.status,
            date_solved = EXCLUDED.date_solved,
            updated_at = NOW()
        RETURNING id, created_at, updated_at`

	const completeQuery = `
        UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := tx.QueryRow(ctx, upsertQuery,
		feedback.TicketID,
		feedback.Comment,
		feedback.Remark,
		feedback.Status,
		feedback.DateSolved,
	).Scan(&feedback.ID, &feedback.CreatedAt, &feedback.UpdatedAt); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, completeQuery, domain.TicketStatusCompleted, feedback.TicketID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
