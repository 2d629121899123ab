package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-desk/internal/api/dto"
	"github.com/spec-kit/repair-desk/internal/service"
)

// ReportsHandler serves dashboard projections.
type ReportsHandler struct {
	service *service.ReportingService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportingService *service.ReportingService) *ReportsHandler {
	return &ReportsHandler{service: reportingService}
}

// Summary GET /reports/summary.
func (h *ReportsHandler) Summary(c *fiber.Ctx) error {
	stats, err := h.service.Summary(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketStatsResponse{
		Total:     stats.Total,
		Pending:   stats.Pending,
		Completed: stats.Completed,
	}})
}
