package domain

import "time"

// Technician is an authenticated account that operates the repair desk.
type Technician struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	CreatedAt    time.Time
}
