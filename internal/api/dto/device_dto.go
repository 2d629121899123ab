package dto

import "time"

// RegisterDeviceRequest payload.
type RegisterDeviceRequest struct {
	SerialNumber string     `json:"serial_number"`
	DeviceType   string     `json:"device_type"`
	Model        string     `json:"model"`
	Location     string     `json:"location"`
	OS           string     `json:"os"`
	IssuedAt     *time.Time `json:"issued_at"`
}

// DeviceResponse is the public device view.
type DeviceResponse struct {
	ID           string     `json:"id"`
	SerialNumber string     `json:"serial_number"`
	DeviceType   string     `json:"device_type"`
	Model        string     `json:"model"`
	Location     string     `json:"location"`
	OS           string     `json:"os"`
	IssuedAt     *time.Time `json:"issued_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
