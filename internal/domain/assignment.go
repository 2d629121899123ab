package domain

import "time"

// Assignment links a technician (by email) to the tickets they handle.
// At most one assignment exists per email; it is created lazily the first
// time a technician opens a ticket and reused afterwards.
type Assignment struct {
	ID        string
	FirstName string
	LastName  string
	Contact   string
	Email     string
	CreatedAt time.Time
}
