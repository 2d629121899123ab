package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/repair-desk/internal/domain"
	"github.com/spec-kit/repair-desk/internal/repository"
	apperrors "github.com/spec-kit/repair-desk/pkg/util/errorutil"
)

// PartsService exposes the read side of the parts ledger. Totals are computed
// fresh per request; nothing is cached.
type PartsService struct {
	tickets repository.TicketRepository
	parts   repository.PartUsageRepository
}

// PartsDependencies bundles repositories for the parts service.
type PartsDependencies struct {
	TicketRepo    repository.TicketRepository
	PartUsageRepo repository.PartUsageRepository
}

// NewPartsService constructs the service.
func NewPartsService(deps PartsDependencies) *PartsService {
	return &PartsService{
		tickets: deps.TicketRepo,
		parts:   deps.PartUsageRepo,
	}
}

// ListUsage returns a ticket's ledger entries, most recent first.
func (s *PartsService) ListUsage(ctx context.Context, ticketID string) ([]domain.PartUsage, error) {
	if err := s.ensureTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	usage, err := s.parts.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return usage, nil
}

// TotalCost returns the sum of quantity times unit cost over a ticket's
// ledger entries; zero when the ledger is empty.
func (s *PartsService) TotalCost(ctx context.Context, ticketID string) (float64, error) {
	if err := s.ensureTicket(ctx, ticketID); err != nil {
		return 0, err
	}
	total, err := s.parts.TotalCost(ctx, ticketID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return total, nil
}

func (s *PartsService) ensureTicket(ctx context.Context, ticketID string) error {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	return nil
}
