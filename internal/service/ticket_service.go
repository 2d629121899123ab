package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/repair-desk/internal/domain"
	"github.com/spec-kit/repair-desk/internal/events"
	"github.com/spec-kit/repair-desk/internal/repository"
	apperrors "github.com/spec-kit/repair-desk/pkg/util/errorutil"
)

// TicketService coordinates the repair workflow: intake, parts recording and
// feedback-driven completion.
type TicketService struct {
	tickets     repository.TicketRepository
	devices     repository.DeviceRepository
	assignments repository.AssignmentRepository
	parts       repository.PartUsageRepository
	feedback    repository.FeedbackRepository
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	DeviceRepo     repository.DeviceRepository
	AssignmentRepo repository.AssignmentRepository
	PartUsageRepo  repository.PartUsageRepository
	FeedbackRepo   repository.FeedbackRepository
	Dispatcher     events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	DeviceID    string
	ReportedBy  string
	Description string
}

// FeedbackInput describes feedback submission payload.
type FeedbackInput struct {
	Comment    string
	Remark     string
	Status     string
	DateSolved *time.Time
}

// TicketDetail aggregates everything a ticket view renders.
type TicketDetail struct {
	Ticket     *domain.Ticket
	Device     *domain.Device
	Assignment *domain.Assignment
	Parts      []domain.PartUsage
	TotalCost  float64
	Feedback   *domain.ServiceFeedback
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		devices:     deps.DeviceRepo,
		assignments: deps.AssignmentRepo,
		parts:       deps.PartUsageRepo,
		feedback:    deps.FeedbackRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// CreateTicket opens a ticket for a device on behalf of a technician. The
// technician's assignment record is created lazily on first use, keyed by
// email, and reused afterwards.
func (s *TicketService) CreateTicket(ctx context.Context, technician *domain.Technician, input TicketCreateInput) (*domain.Ticket, error) {
	reportedBy := strings.TrimSpace(input.ReportedBy)
	description := strings.TrimSpace(input.Description)
	if reportedBy == "" || description == "" {
		return nil, apperrors.NewValidationError("reporter and description required", nil)
	}

	device, err := s.devices.GetByID(ctx, input.DeviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("device", map[string]any{"device_id": input.DeviceID})
		}
		return nil, apperrors.MapError(err)
	}

	assignment, err := s.resolveAssignment(ctx, technician)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		TicketNumber: generateTicketNumber(),
		DeviceID:     device.ID,
		AssignmentID: assignment.ID,
		ReportedBy:   reportedBy,
		Description:  description,
		Status:       domain.TicketStatusPending,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCreated,
		TicketID:     ticket.ID,
		TechnicianID: technician.ID,
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			DeviceID:     ticket.DeviceID,
			AssignmentID: ticket.AssignmentID,
			ReportedBy:   ticket.ReportedBy,
		},
	})
	return ticket, nil
}

// RecordPartUsage appends one ledger entry to a pending ticket. The ticket
// stays pending; recording parts is not a state transition.
func (s *TicketService) RecordPartUsage(ctx context.Context, ticketID, partName string, quantity int, unitCost float64) (*domain.PartUsage, error) {
	partName = strings.TrimSpace(partName)
	if partName == "" {
		return nil, apperrors.NewValidationError("part name required", nil)
	}
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", map[string]any{"quantity": quantity})
	}
	if unitCost < 0 {
		return nil, apperrors.NewValidationError("unit cost cannot be negative", map[string]any{"unit_cost": unitCost})
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	usage := &domain.PartUsage{
		TicketID: ticket.ID,
		PartName: partName,
		Quantity: quantity,
		UnitCost: unitCost,
	}
	if err := s.parts.Create(ctx, usage); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventPartUsageRecorded,
		TicketID: ticket.ID,
		Payload: events.PartUsageRecordedPayload{
			PartName: usage.PartName,
			Quantity: usage.Quantity,
			UnitCost: usage.UnitCost,
		},
	})
	return usage, nil
}

// FinishPartsRecording is a pure navigation signal from the parts step to the
// feedback step. It verifies the ticket exists and is still pending but never
// mutates status; only feedback submission completes a ticket.
func (s *TicketService) FinishPartsRecording(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Completed() {
		return nil, apperrors.NewValidationError("ticket already completed", map[string]any{"ticket_id": ticket.ID})
	}
	return ticket, nil
}

// MarkNoPartsNeeded is the navigation signal for tickets repaired without
// parts. Same semantics as FinishPartsRecording.
func (s *TicketService) MarkNoPartsNeeded(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.FinishPartsRecording(ctx, ticketID)
}

// SubmitFeedback records the closing feedback for a ticket and completes it.
// Resubmission updates the existing row in place; the ticket never collects a
// second feedback record.
func (s *TicketService) SubmitFeedback(ctx context.Context, ticketID string, input FeedbackInput) (*domain.ServiceFeedback, error) {
	comment := strings.TrimSpace(input.Comment)
	label := strings.TrimSpace(input.Status)
	if comment == "" || label == "" {
		return nil, apperrors.NewValidationError("comment and status required", nil)
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	if oldStatus != domain.TicketStatusCompleted && !canTransition(oldStatus, domain.TicketStatusCompleted) {
		return nil, apperrors.NewValidationError("ticket cannot be completed from its current status", map[string]any{"status": oldStatus})
	}

	dateSolved := input.DateSolved
	if dateSolved == nil {
		now := time.Now()
		dateSolved = &now
	}

	feedback := &domain.ServiceFeedback{
		TicketID:   ticket.ID,
		Comment:    comment,
		Remark:     strings.TrimSpace(input.Remark),
		Status:     label,
		DateSolved: dateSolved,
	}
	if err := s.feedback.UpsertForTicket(ctx, feedback); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventFeedbackSubmitted,
		TicketID: ticket.ID,
		Payload: events.FeedbackSubmittedPayload{
			OldStatus: oldStatus,
			NewStatus: domain.TicketStatusCompleted,
			Label:     feedback.Status,
		},
	})
	return feedback, nil
}

// GetTicketDetail loads a ticket with its device, assignment, parts ledger,
// running total and feedback when present.
func (s *TicketService) GetTicketDetail(ctx context.Context, ticketID string) (*TicketDetail, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	device, err := s.devices.GetByID(ctx, ticket.DeviceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	assignment, err := s.assignments.GetByID(ctx, ticket.AssignmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	parts, err := s.parts.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total, err := s.parts.TotalCost(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	detail := &TicketDetail{
		Ticket:     ticket,
		Device:     device,
		Assignment: assignment,
		Parts:      parts,
		TotalCost:  total,
	}

	feedback, err := s.feedback.GetByTicket(ctx, ticket.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if err == nil {
		detail.Feedback = feedback
	}
	return detail, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) resolveAssignment(ctx context.Context, technician *domain.Technician) (*domain.Assignment, error) {
	first, last := splitName(technician.Name)
	assignment := &domain.Assignment{
		FirstName: first,
		LastName:  last,
		Contact:   technician.Phone,
		Email:     technician.Email,
	}
	if err := s.assignments.Upsert(ctx, assignment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return assignment, nil
}

func generateTicketNumber() string {
	return "RPT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusPending:   {domain.TicketStatusCompleted},
	domain.TicketStatusCompleted: {},
}

func canTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
