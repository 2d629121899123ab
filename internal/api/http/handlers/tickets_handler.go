package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-desk/internal/api/dto"
	"github.com/spec-kit/repair-desk/internal/auth"
	"github.com/spec-kit/repair-desk/internal/domain"
	"github.com/spec-kit/repair-desk/internal/repository"
	"github.com/spec-kit/repair-desk/internal/service"
	apperrors "github.com/spec-kit/repair-desk/pkg/util/errorutil"
)

// TicketsHandler manages the repair workflow endpoints.
type TicketsHandler struct {
	tickets   *service.TicketService
	reporting *service.ReportingService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, reportingService *service.ReportingService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, reporting: reportingService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Technician == nil {
		return apperrors.NewUnauthorized("technician required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.DeviceID == "" {
		return apperrors.NewValidationError("device_id required", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), principal.Technician, service.TicketCreateInput{
		DeviceID:    req.DeviceID,
		ReportedBy:  req.ReportedBy,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets?status=&limit=.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := service.StatusFilter(c.Query("status", string(service.FilterAll)))
	limit := parseInt(c.Query("limit"), 20)

	items, err := h.reporting.ListRecent(c.Context(), limit, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overviewResponses(items)})
}

// ListAssigned GET /tickets/assigned — tickets handled by the caller.
func (h *TicketsHandler) ListAssigned(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Technician == nil {
		return apperrors.NewUnauthorized("technician required")
	}
	limit := parseInt(c.Query("limit"), 10)

	items, err := h.reporting.ListAssignedTo(c.Context(), principal.Technician.Email, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overviewResponses(items)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	detail, err := h.tickets.GetTicketDetail(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// RecordPartUsage POST /tickets/:id/parts.
func (h *TicketsHandler) RecordPartUsage(c *fiber.Ctx) error {
	var req dto.RecordPartUsageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	usage, err := h.tickets.RecordPartUsage(c.Context(), c.Params("id"), req.PartName, req.Quantity, req.UnitCost)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": partUsageResponse(usage)})
}

// FinishParts POST /tickets/:id/parts/finish — navigation to the feedback
// step, also used for the no-parts-needed path.
func (h *TicketsHandler) FinishParts(c *fiber.Ctx) error {
	ticket, err := h.tickets.FinishPartsRecording(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// SubmitFeedback POST /tickets/:id/feedback.
func (h *TicketsHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req dto.SubmitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	feedback, err := h.tickets.SubmitFeedback(c.Context(), c.Params("id"), service.FeedbackInput{
		Comment:    req.Comment,
		Remark:     req.Remark,
		Status:     req.Status,
		DateSolved: req.DateSolved,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": feedbackResponse(feedback)})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		DeviceID:     ticket.DeviceID,
		AssignmentID: ticket.AssignmentID,
		ReportedBy:   ticket.ReportedBy,
		Status:       ticket.Status,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func overviewResponses(items []repository.TicketOverview) []dto.TicketOverviewResponse {
	resp := make([]dto.TicketOverviewResponse, 0, len(items))
	for i := range items {
		item := &items[i]
		name := item.FirstName
		if item.LastName != "" {
			name += " " + item.LastName
		}
		resp = append(resp, dto.TicketOverviewResponse{
			TicketSummary:  ticketSummary(&item.Ticket),
			SerialNumber:   item.SerialNumber,
			Model:          item.Model,
			Location:       item.Location,
			TechnicianName: name,
			TechEmail:      item.TechEmail,
			FeedbackStatus: item.FeedbackStatus,
			DateSolved:     item.DateSolved,
		})
	}
	return resp
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetailResponse {
	parts := make([]dto.PartUsageResponse, 0, len(detail.Parts))
	for i := range detail.Parts {
		parts = append(parts, partUsageResponse(&detail.Parts[i]))
	}

	resp := dto.TicketDetailResponse{
		TicketSummary: ticketSummary(detail.Ticket),
		Description:   detail.Ticket.Description,
		Device:        deviceResponse(detail.Device),
		Technician: dto.TechnicianResponse{
			ID:    detail.Assignment.ID,
			Name:  assignmentName(detail.Assignment),
			Email: detail.Assignment.Email,
			Phone: detail.Assignment.Contact,
		},
		Parts:     parts,
		TotalCost: detail.TotalCost,
	}
	if detail.Feedback != nil {
		fb := feedbackResponse(detail.Feedback)
		resp.Feedback = &fb
	}
	return resp
}

func assignmentName(assignment *domain.Assignment) string {
	if assignment.LastName == "" {
		return assignment.FirstName
	}
	return assignment.FirstName + " " + assignment.LastName
}

func partUsageResponse(usage *domain.PartUsage) dto.PartUsageResponse {
	return dto.PartUsageResponse{
		ID:         usage.ID,
		PartName:   usage.PartName,
		Quantity:   usage.Quantity,
		UnitCost:   usage.UnitCost,
		LineCost:   usage.LineCost(),
		RecordedAt: usage.RecordedAt,
	}
}

func feedbackResponse(feedback *domain.ServiceFeedback) dto.FeedbackResponse {
	return dto.FeedbackResponse{
		ID:         feedback.ID,
		TicketID:   feedback.TicketID,
		Comment:    feedback.Comment,
		Remark:     feedback.Remark,
		Status:     feedback.Status,
		DateSolved: feedback.DateSolved,
		CreatedAt:  feedback.CreatedAt,
		UpdatedAt:  feedback.UpdatedAt,
	}
}
