package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/repair-desk/internal/domain"
)

// TicketOverview joins a ticket with display metadata from its device,
// assignment and feedback, as rendered by list and dashboard views.
type TicketOverview struct {
	Ticket         domain.Ticket
	SerialNumber   string
	Model          string
	Location       string
	FirstName      string
	LastName       string
	TechEmail      string
	FeedbackStatus *string
	DateSolved     *time.Time
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error)
	ListRecent(ctx context.Context, limit int, status *domain.TicketStatus) ([]TicketOverview, error)
	ListByAssignmentEmail(ctx context.Context, email string, limit int) ([]TicketOverview, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, device_id, assignment_id, reported_by, description, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.DeviceID,
		ticket.AssignmentID,
		ticket.ReportedBy,
		ticket.Description,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, ticket_number, device_id, assignment_id, reported_by, description, status, created_at, updated_at
        FROM tickets WHERE id=$1`

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.DeviceID,
		&ticket.AssignmentID,
		&ticket.ReportedBy,
		&ticket.Description,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) CountAll(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets`
	var count int64
	err := r.pool.QueryRow(ctx, query).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE status=$1`
	var count int64
	err := r.pool.QueryRow(ctx, query, status).Scan(&count)
	return count, err
}

const overviewSelect = `
        SELECT t.id, t.ticket_number, t.device_id, t.assignment_id, t.reported_by, t.description,
               t.status, t.created_at, t.updated_at,
               d.serial_number, d.model, d.location,
               ta.first_name, ta.last_name, ta.email,
               sf.status, sf.date_solved
        FROM tickets t
        JOIN devices d ON t.device_id = d.id
        JOIN technician_assignments ta ON t.assignment_id = ta.id
        LEFT JOIN service_feedback sf ON sf.ticket_id = t.id`

func (r *ticketRepository) ListRecent(ctx context.Context, limit int, status *domain.TicketStatus) ([]TicketOverview, error) {
	if limit <= 0 {
		limit = 20
	}
	query := overviewSelect
	args := []any{}
	if status != nil {
		query += ` WHERE t.status=$1`
		args = append(args, *status)
	}
	query += ` ORDER BY t.created_at DESC LIMIT ` + strconv.Itoa(limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOverviews(rows)
}

func (r *ticketRepository) ListByAssignmentEmail(ctx context.Context, email string, limit int) ([]TicketOverview, error) {
	if limit <= 0 {
		limit = 20
	}
	query := overviewSelect + ` WHERE ta.email=$1 ORDER BY t.created_at DESC LIMIT ` + strconv.Itoa(limit)

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOverviews(rows)
}

func scanOverviews(rows pgx.Rows) ([]TicketOverview, error) {
	var result []TicketOverview
	for rows.Next() {
		var item TicketOverview
		if err := rows.Scan(
			&item.Ticket.ID,
			&item.Ticket.TicketNumber,
			&item.Ticket.DeviceID,
			&item.Ticket.AssignmentID,
			&item.Ticket.ReportedBy,
			&item.Ticket.Description,
			&item.Ticket.Status,
			&item.Ticket.CreatedAt,
			&item.Ticket.UpdatedAt,
			&item.SerialNumber,
			&item.Model,
			&item.Location,
			&item.FirstName,
			&item.LastName,
			&item.TechEmail,
			&item.FeedbackStatus,
			&item.DateSolved,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
