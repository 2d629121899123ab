package domain

import "time"

// ServiceFeedback is the closing record of a ticket. Exactly one row exists
// per ticket; resubmission updates it in place.
type ServiceFeedback struct {
	ID         string
	TicketID   string
	Comment    string
	Remark     string
	Status     string
	DateSolved *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
