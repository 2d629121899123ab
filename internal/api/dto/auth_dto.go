package dto

import "time"

// SignupRequest payload.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse returns the technician identity and access token.
type AuthResponse struct {
	Technician TechnicianResponse `json:"technician"`
	Token      string             `json:"token"`
	ExpiresAt  time.Time          `json:"expires_at"`
}

// TechnicianResponse is the public technician view.
type TechnicianResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
