package domain

import "time"

// TicketStatus enumerates lifecycle states for repair tickets.
type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusCompleted TicketStatus = "completed"
)

// Ticket is the aggregate for a single reported device issue, tracked from
// intake to completion. Status is stored, never derived from joins.
type Ticket struct {
	ID           string
	TicketNumber string
	DeviceID     string
	AssignmentID string
	ReportedBy   string
	Description  string
	Status       TicketStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Completed reports whether the ticket reached its terminal state.
func (t *Ticket) Completed() bool {
	return t.Status == TicketStatusCompleted
}
