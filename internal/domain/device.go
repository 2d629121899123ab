package domain

import "time"

// Device is a registered piece of hardware tracked by serial number.
// Devices are immutable once registered.
type Device struct {
	ID           string
	SerialNumber string
	DeviceType   string
	Model        string
	Location     string
	OS           string
	IssuedAt     *time.Time
	CreatedAt    time.Time
}
