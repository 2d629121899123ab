package dto

import (
	"time"

	"github.com/spec-kit/repair-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	DeviceID    string `json:"device_id"`
	ReportedBy  string `json:"reported_by"`
	Description string `json:"description"`
}

// RecordPartUsageRequest payload.
type RecordPartUsageRequest struct {
	PartName string  `json:"part_name"`
	Quantity int     `json:"quantity"`
	UnitCost float64 `json:"unit_cost"`
}

// SubmitFeedbackRequest payload.
type SubmitFeedbackRequest struct {
	Comment    string     `json:"comment"`
	Remark     string     `json:"remark"`
	Status     string     `json:"status"`
	DateSolved *time.Time `json:"date_solved"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           string              `json:"id"`
	TicketNumber string              `json:"ticket_number"`
	DeviceID     string              `json:"device_id"`
	AssignmentID string              `json:"assignment_id"`
	ReportedBy   string              `json:"reported_by"`
	Status       domain.TicketStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TicketOverviewResponse is a list row with device and technician metadata.
type TicketOverviewResponse struct {
	TicketSummary
	SerialNumber   string     `json:"serial_number"`
	Model          string     `json:"model"`
	Location       string     `json:"location"`
	TechnicianName string     `json:"technician_name"`
	TechEmail      string     `json:"tech_email"`
	FeedbackStatus *string    `json:"feedback_status,omitempty"`
	DateSolved     *time.Time `json:"date_solved,omitempty"`
}

// PartUsageResponse is one ledger entry.
type PartUsageResponse struct {
	ID         string    `json:"id"`
	PartName   string    `json:"part_name"`
	Quantity   int       `json:"quantity"`
	UnitCost   float64   `json:"unit_cost"`
	LineCost   float64   `json:"line_cost"`
	RecordedAt time.Time `json:"recorded_at"`
}

// FeedbackResponse is the closing record view.
type FeedbackResponse struct {
	ID         string     `json:"id"`
	TicketID   string     `json:"ticket_id"`
	Comment    string     `json:"comment"`
	Remark     string     `json:"remark,omitempty"`
	Status     string     `json:"status"`
	DateSolved *time.Time `json:"date_solved,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Description string              `json:"description"`
	Device      DeviceResponse      `json:"device"`
	Technician  TechnicianResponse  `json:"technician"`
	Parts       []PartUsageResponse `json:"parts"`
	TotalCost   float64             `json:"total_cost"`
	Feedback    *FeedbackResponse   `json:"feedback,omitempty"`
}

// TicketStatsResponse aggregates dashboard counters.
type TicketStatsResponse struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
}
