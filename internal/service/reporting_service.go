package service

import (
	"context"

	"github.com/spec-kit/repair-desk/internal/domain"
	"github.com/spec-kit/repair-desk/internal/repository"
	apperrors "github.com/spec-kit/repair-desk/pkg/util/errorutil"
)

// StatusFilter selects which tickets a listing returns.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterPending   StatusFilter = "pending"
	FilterCompleted StatusFilter = "completed"
)

// TicketStats aggregates dashboard counters.
type TicketStats struct {
	Total     int64
	Pending   int64
	Completed int64
}

// ReportingService provides read-only projections over the workflow state.
// All counts derive from the single stored status column, so every view sees
// the same numbers.
type ReportingService struct {
	tickets repository.TicketRepository
}

// ReportingDependencies bundles repositories for the reporting service.
type ReportingDependencies struct {
	TicketRepo repository.TicketRepository
}

// NewReportingService constructs the service.
func NewReportingService(deps ReportingDependencies) *ReportingService {
	return &ReportingService{tickets: deps.TicketRepo}
}

// Summary returns the total/pending/completed counters.
func (s *ReportingService) Summary(ctx context.Context) (*TicketStats, error) {
	total, err := s.tickets.CountAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	pending, err := s.tickets.CountByStatus(ctx, domain.TicketStatusPending)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	completed, err := s.tickets.CountByStatus(ctx, domain.TicketStatusCompleted)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TicketStats{Total: total, Pending: pending, Completed: completed}, nil
}

// ListRecent returns the newest tickets matching the filter, with device and
// assignment metadata attached.
func (s *ReportingService) ListRecent(ctx context.Context, limit int, filter StatusFilter) ([]repository.TicketOverview, error) {
	var status *domain.TicketStatus
	switch filter {
	case FilterAll, "":
		// no restriction
	case FilterPending:
		st := domain.TicketStatusPending
		status = &st
	case FilterCompleted:
		st := domain.TicketStatusCompleted
		status = &st
	default:
		return nil, apperrors.NewValidationError("unknown status filter", map[string]any{"filter": filter})
	}

	items, err := s.tickets.ListRecent(ctx, limit, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// ListAssignedTo returns the newest tickets handled by the technician with
// the given email.
func (s *ReportingService) ListAssignedTo(ctx context.Context, email string, limit int) ([]repository.TicketOverview, error) {
	if email == "" {
		return nil, apperrors.NewValidationError("email required", nil)
	}
	items, err := s.tickets.ListByAssignmentEmail(ctx, email, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}
