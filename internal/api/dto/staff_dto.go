package dto

import "time"

// StaffLoginRequest carries terminal login credentials.
type StaffLoginRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

// StaffLoginResponse returns the issued token.
type StaffLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	StaffID   int       `json:"staff_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
}
