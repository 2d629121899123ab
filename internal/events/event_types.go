package events

import (
	"time"

	"github.com/spec-kit/repair-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDeviceRegistered  EventType = "device_registered"
	EventTicketCreated     EventType = "ticket_created"
	EventPartUsageRecorded EventType = "part_usage_recorded"
	EventFeedbackSubmitted EventType = "feedback_submitted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	TicketID     string      `json:"ticket_id,omitempty"`
	TechnicianID string      `json:"technician_id,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// DeviceRegisteredPayload payload.
type DeviceRegisteredPayload struct {
	DeviceID     string `json:"device_id"`
	SerialNumber string `json:"serial_number"`
	DeviceType   string `json:"device_type"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string `json:"ticket_number"`
	DeviceID     string `json:"device_id"`
	AssignmentID string `json:"assignment_id"`
	ReportedBy   string `json:"reported_by"`
}

// PartUsageRecordedPayload payload.
type PartUsageRecordedPayload struct {
	PartName string  `json:"part_name"`
	Quantity int     `json:"quantity"`
	UnitCost float64 `json:"unit_cost"`
}

// FeedbackSubmittedPayload payload.
type FeedbackSubmittedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Label     string              `json:"label"`
}
