package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/repair-desk/internal/domain"
)

// AssignmentRepository encapsulates technician-assignment persistence.
type AssignmentRepository interface {
	// Upsert inserts the assignment or, when one already exists for the
	// email, loads the existing row. The email uniqueness constraint makes
	// this safe under concurrent ticket creation.
	Upsert(ctx context.Context, assignment *domain.Assignment) error
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	GetByEmail(ctx context.Context, email string) (*domain.Assignment, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository instantiates repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Upsert(ctx context.Context, assignment *domain.Assignment) error {
	// DO UPDATE with an unchanged column forces RETURNING to yield the
	// existing row instead of failing the insert.
	const query = `
        INSERT INTO technician_assignments (first_name, last_name, contact, email)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
        RETURNING id, first_name, last_name, contact, email, created_at`

	return r.pool.QueryRow(ctx, query,
		assignment.FirstName,
		assignment.LastName,
		assignment.Contact,
		assignment.Email,
	).Scan(
		&assignment.ID,
		&assignment.FirstName,
		&assignment.LastName,
		&assignment.Contact,
		&assignment.Email,
		&assignment.CreatedAt,
	)
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	const query = `
        SELECT id, first_name, last_name, contact, email, created_at
        FROM technician_assignments WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *assignmentRepository) GetByEmail(ctx context.Context, email string) (*domain.Assignment, error) {
	const query = `
        SELECT id, first_name, last_name, contact, email, created_at
        FROM technician_assignments WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *assignmentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Assignment, error) {
	var assignment domain.Assignment
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&assignment.ID,
		&assignment.FirstName,
		&assignment.LastName,
		&assignment.Contact,
		&assignment.Email,
		&assignment.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &assignment, nil
}
